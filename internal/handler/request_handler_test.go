package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
)

// fakeRequestService serves a fixed slice through the List pagination
// contract; the other operations are unused by the export path.
type fakeRequestService struct {
	requests []service.RequestResponse
}

func (f *fakeRequestService) Create(ctx context.Context, actor service.Actor, req service.CreateRequestDTO) (service.RequestResponse, error) {
	return service.RequestResponse{}, nil
}

func (f *fakeRequestService) Update(ctx context.Context, actor service.Actor, id string, req service.UpdateRequestDTO) (service.RequestResponse, error) {
	return service.RequestResponse{}, nil
}

func (f *fakeRequestService) GetByID(ctx context.Context, actor service.Actor, id string) (service.RequestResponse, error) {
	return service.RequestResponse{}, nil
}

func (f *fakeRequestService) List(ctx context.Context, actor service.Actor, filter service.RequestFilter) ([]service.RequestResponse, int64, error) {
	start := (filter.Page - 1) * filter.Limit
	if start >= len(f.requests) {
		return nil, int64(len(f.requests)), nil
	}
	end := start + filter.Limit
	if end > len(f.requests) {
		end = len(f.requests)
	}
	return f.requests[start:end], int64(len(f.requests)), nil
}

func TestExportPrintTableCoversWholeView(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// More rows than one list page can carry.
	fake := &fakeRequestService{}
	for i := 1; i <= 250; i++ {
		fake.requests = append(fake.requests, service.RequestResponse{
			DisplayID:       fmt.Sprintf("REQ-2026-%04d", i),
			Name:            fmt.Sprintf("Requester %d", i),
			Age:             30,
			CivilStatus:     "Single",
			CertificateType: model.CertTypeClearance,
			Purpose:         "Employment",
			RequestDate:     "2026-08-28",
		})
	}

	h := NewRequestHandler(fake, nil, nil)
	router := gin.New()
	router.GET("/api/requests/export", func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("userEmail", "clerk@sanisidro.gov.ph")
		c.Set("userRole", model.RoleAdmin)
		h.ExportPrintTable(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/requests/export", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if got := strings.Count(body, "REQ-2026-"); got != 250 {
		t.Errorf("exported %d rows, want all 250", got)
	}
	for _, want := range []string{"REQ-2026-0001", "REQ-2026-0101", "REQ-2026-0250"} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %s", want)
		}
	}
}
