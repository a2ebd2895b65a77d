// Package roster maps a barangay's recorded officials onto the canonical
// certificate positions. Matching is a pure function of the officials list
// and the current date, so certificate output is reproducible.
package roster

import (
	"strings"
	"time"

	"backend/internal/model"
	"backend/pkg/dates"
)

// CanonicalPositions is the fixed print order for the officials column on
// every certificate. "Infrastracture" is a long-standing misspelling in
// issued certificates and is kept for compatibility; the matcher accepts the
// correct spelling from encoded officials.
var CanonicalPositions = [11]string{
	"Barangay Captain",
	"Chairman, Committee on Appropriation",
	"Chairman, Committee on Infrastracture",
	"Chairman, Committee on Education",
	"Chairman, Committee on Health",
	"Chairman, Committee on Agriculture",
	"Chairman, Committee on Peace and Order",
	"Chairman, Committee on Environment",
	"Chairman, Committee on Youth and Sports Development",
	"Barangay Secretary",
	"Barangay Treasurer",
}

const vacantName = "(Vacant)"

// Entry is one row of the certificate officials column: either a matched
// active official or a vacant placeholder carrying only the position title.
type Entry struct {
	Name          string `json:"name"`
	Position      string `json:"position"`
	IsPlaceholder bool   `json:"is_placeholder"`
}

// IsTermActive reports whether an official currently holds office: the term
// ends on, not before, termEnd. Nil means no recorded term, treated as
// inactive. Comparison is by UTC civil day (see pkg/dates).
func IsTermActive(termEnd *time.Time, today time.Time) bool {
	if termEnd == nil {
		return false
	}
	return !dates.CivilDay(*termEnd).Before(dates.CivilDay(today))
}

// Match resolves each canonical position, in order, to an active official or
// a vacant placeholder. Always returns exactly len(CanonicalPositions)
// entries. Matching precedence per position:
//  1. exact case-insensitive trimmed title match
//  2. the Infrastracture/infrastructure alias
//  3. committee-remainder containment in either direction
func Match(officials []model.Official, today time.Time) []Entry {
	active := make([]model.Official, 0, len(officials))
	for _, o := range officials {
		if IsTermActive(o.TermEnd, today) {
			active = append(active, o)
		}
	}

	entries := make([]Entry, 0, len(CanonicalPositions))
	for _, canonical := range CanonicalPositions {
		if o, ok := findOfficial(canonical, active); ok {
			entries = append(entries, Entry{Name: o.Name, Position: canonical})
		} else {
			entries = append(entries, Entry{Name: vacantName, Position: canonical, IsPlaceholder: true})
		}
	}
	return entries
}

// Captain returns the matched Barangay Captain entry from a Match result.
func Captain(entries []Entry) Entry {
	for _, e := range entries {
		if e.Position == CanonicalPositions[0] {
			return e
		}
	}
	return Entry{Name: vacantName, Position: CanonicalPositions[0], IsPlaceholder: true}
}

func findOfficial(canonical string, active []model.Official) (model.Official, bool) {
	for _, o := range active {
		if matchExact(canonical, o.Position) {
			return o, true
		}
	}
	for _, o := range active {
		if matchInfrastructureAlias(canonical, o.Position) {
			return o, true
		}
	}
	for _, o := range active {
		if matchCommitteeRemainder(canonical, o.Position) {
			return o, true
		}
	}
	return model.Official{}, false
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchExact(canonical, position string) bool {
	return norm(canonical) == norm(position)
}

func matchInfrastructureAlias(canonical, position string) bool {
	return strings.Contains(norm(canonical), "infrastracture") &&
		strings.Contains(norm(position), "infrastructure")
}

// matchCommitteeRemainder compares the text after "committee on" on both
// sides; a match needs either remainder to contain the other.
func matchCommitteeRemainder(canonical, position string) bool {
	c, okC := committeeRemainder(canonical)
	p, okP := committeeRemainder(position)
	if !okC || !okP || c == "" || p == "" {
		return false
	}
	return strings.Contains(c, p) || strings.Contains(p, c)
}

func committeeRemainder(s string) (string, bool) {
	const marker = "committee on"
	lower := norm(s)
	idx := strings.Index(lower, marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(lower[idx+len(marker):]), true
}
