package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // logo decode support
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/roster"
	"backend/pkg/dates"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// CertificateService renders the printable certificate for an Accepted
// request: masthead, officials column, per-type body paragraphs, signature
// block and footer. Rendering is also the reprint path — Accepted requests
// can be printed again on demand without a status change.
type CertificateService interface {
	Generate(ctx context.Context, actor Actor, requestID string) ([]byte, error)
}

type certificateService struct {
	requestRepo  repository.RequestRepository
	officialRepo repository.OfficialRepository
	auditRepo    repository.AuditRepository
}

func NewCertificateService(
	requestRepo repository.RequestRepository,
	officialRepo repository.OfficialRepository,
	auditRepo repository.AuditRepository,
) CertificateService {
	return &certificateService{
		requestRepo:  requestRepo,
		officialRepo: officialRepo,
		auditRepo:    auditRepo,
	}
}

func (s *certificateService) Generate(ctx context.Context, actor Actor, requestID string) ([]byte, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("invalid request id: %w", err)
	}

	request, err := s.requestRepo.FindByIDWithBarangay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("request not found: %w", err)
	}
	if !actor.CanAccessBarangay(request.BarangayID) {
		return nil, ErrNotAuthorized
	}
	if request.Status != model.StatusAccepted {
		return nil, fmt.Errorf("%w: certificates are only issued for %s requests, this one is %s",
			ErrInvalidTransition, model.StatusAccepted, request.Status)
	}
	if request.Barangay == nil {
		return nil, fmt.Errorf("request %s has no barangay record", request.DisplayID())
	}

	officials, err := s.officialRepo.ListByBarangay(ctx, request.BarangayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load officials: %w", err)
	}

	now := time.Now()
	entries := roster.Match(officials, now)
	pdfBytes, err := renderCertificate(request, request.Barangay, entries, now)
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	if err := writeRequestAudit(ctx, s.auditRepo, actor, model.ActionPrintCertificate, request, map[string]interface{}{
		"display_id": request.DisplayID(),
	}); err != nil {
		return nil, err
	}

	return pdfBytes, nil
}

// --- layout ---

const certificateFooter = "Not valid without the official barangay seal. Any erasure or alteration voids this certificate."

// certificateBody assembles the 2-3 template paragraphs for a request.
// Wording differs per certificate type; the requester's name is uppercased
// throughout.
func certificateBody(r *model.DocumentRequest, b *model.Barangay) []string {
	name := strings.ToUpper(strings.TrimSpace(r.Name))
	residence := fmt.Sprintf("Barangay %s, %s, %s", b.Name, b.Municipality, b.Province)

	switch r.CertificateType {
	case model.CertTypeClearance:
		return []string{
			fmt.Sprintf("This is to certify that %s, %d years of age, %s, is a bona fide resident of %s.",
				name, r.Age, r.CivilStatus, residence),
			"This further certifies that the above-named person is a law abiding citizen and has no derogatory records on file in this barangay.",
			fmt.Sprintf("This certification is being issued upon the request of the above-named person for %s purposes only.", r.Purpose),
		}
	case model.CertTypeResidency:
		born := ""
		if r.BirthDate != nil {
			born = r.BirthDate.Format("January 2, 2006")
		}
		return []string{
			fmt.Sprintf("This is to certify that %s, %d years of age, %s, born on %s at %s, child of %s and %s, is a bona fide resident of %s.",
				name, r.Age, r.CivilStatus, born, r.BirthPlace, r.MotherName, r.FatherName, residence),
			fmt.Sprintf("This certification is being issued upon the request of the above-named person for %s purposes only.", r.Purpose),
		}
	case model.CertTypeIndigency:
		return []string{
			fmt.Sprintf("This is to certify that %s, %d years of age, %s, is a bona fide resident of %s and belongs to the indigent families of this barangay.",
				name, r.Age, r.CivilStatus, residence),
			fmt.Sprintf("This certification is being issued upon the request of the above-named person for %s purposes only.", r.Purpose),
		}
	default:
		return nil
	}
}

// issuedLine renders the dated issuance sentence, e.g.
// "Issued this 28th day of August, 2026 at Barangay San Isidro, ...".
func issuedLine(b *model.Barangay, now time.Time) string {
	day := dates.CivilDay(now)
	return fmt.Sprintf("Issued this %s day of %s, %d at Barangay %s, %s, %s.",
		dates.Ordinal(day.Day()), day.Month().String(), day.Year(), b.Name, b.Municipality, b.Province)
}

// signatoryName is the captain line of the signature block: the active
// Barangay Captain's name uppercased, or "(VACANT)" when the seat is empty.
func signatoryName(entries []roster.Entry) string {
	captain := roster.Captain(entries)
	if captain.IsPlaceholder {
		return "(VACANT)"
	}
	return strings.ToUpper(captain.Name)
}

func renderCertificate(r *model.DocumentRequest, b *model.Barangay, entries []roster.Entry, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 12, 15)
	pdf.AddPage()

	// Masthead. A missing or unreadable logo degrades to text-only output.
	if b.LogoPath != "" {
		if err := placeLogo(pdf, b.LogoPath); err != nil {
			log.Printf("certificate: logo %s unavailable, continuing without it: %v", b.LogoPath, err)
		}
	}

	pdf.SetFont("Times", "", 11)
	pdf.CellFormat(0, 5, "Republic of the Philippines", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Province of %s", b.Province), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Municipality of %s", b.Municipality), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 13)
	pdf.CellFormat(0, 6, fmt.Sprintf("BARANGAY %s", strings.ToUpper(b.Name)), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 11)
	pdf.CellFormat(0, 5, "OFFICE OF THE PUNONG BARANGAY", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "I", 9)
	contact := strings.TrimSpace(strings.Join(nonEmpty(b.ContactEmail, b.ContactPhone), " | "))
	if contact != "" {
		pdf.CellFormat(0, 4, contact, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetLineWidth(0.6)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)

	// Officials column on the left, certificate text to its right.
	colTop := pdf.GetY()
	pdf.SetFont("Times", "B", 9)
	pdf.CellFormat(55, 5, "BARANGAY OFFICIALS", "", 1, "C", false, 0, "")
	for _, entry := range entries {
		pdf.SetFont("Times", "", 7)
		pdf.MultiCell(55, 3.2, entry.Position, "", "C", false)
		if !entry.IsPlaceholder {
			pdf.SetFont("Times", "B", 8)
			pdf.MultiCell(55, 3.6, strings.ToUpper(entry.Name), "", "C", false)
		}
		pdf.Ln(1.5)
	}

	bodyLeft := 78.0
	pdf.SetY(colTop)
	pdf.SetX(bodyLeft)
	pdf.SetFont("Times", "B", 14)
	pdf.CellFormat(0, 8, strings.ToUpper(r.CertificateType), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetX(bodyLeft)
	pdf.SetFont("Times", "", 11)
	pdf.MultiCell(0, 5, "TO WHOM IT MAY CONCERN:", "", "L", false)
	pdf.Ln(2)

	for _, paragraph := range certificateBody(r, b) {
		pdf.SetX(bodyLeft)
		pdf.MultiCell(0, 5.5, paragraph, "", "J", false)
		pdf.Ln(2)
	}

	pdf.SetX(bodyLeft)
	pdf.MultiCell(0, 5.5, issuedLine(b, now), "", "J", false)
	pdf.Ln(12)

	// Signature block.
	pdf.SetX(120)
	pdf.SetFont("Times", "B", 11)
	pdf.CellFormat(75, 5, fmt.Sprintf("HON. %s", signatoryName(entries)), "T", 1, "C", false, 0, "")
	pdf.SetX(120)
	pdf.SetFont("Times", "", 9)
	pdf.CellFormat(75, 4, "Punong Barangay", "", 1, "C", false, 0, "")

	// Footer disclaimer.
	pdf.SetY(-25)
	pdf.SetFont("Times", "I", 8)
	pdf.MultiCell(0, 4, certificateFooter, "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// placeLogo registers and draws the barangay logo in the masthead corner.
// The image is decoded up front: gofpdf's error state is sticky, so a broken
// asset must never reach it or the whole certificate would fail instead of
// degrading to text-only.
func placeLogo(pdf *gofpdf.Fpdf, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("undecodable logo image: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	opts := gofpdf.ImageOptions{ImageType: ext}
	pdf.RegisterImageOptionsReader("barangay-logo", opts, f)
	if pdf.Err() {
		return pdf.Error()
	}
	pdf.ImageOptions("barangay-logo", 20, 12, 22, 22, false, opts, 0, "")
	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
