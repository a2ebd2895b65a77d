package roster

import (
	"reflect"
	"testing"
	"time"

	"backend/internal/model"
)

var today = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func official(name, position string, termEnd time.Time) model.Official {
	end := termEnd
	return model.Official{Name: name, Position: position, TermEnd: &end}
}

func TestIsTermActive(t *testing.T) {
	cases := []struct {
		name    string
		termEnd *time.Time
		want    bool
	}{
		{"nil term end", nil, false},
		{"ends today", timePtr(today), true},
		{"ends tomorrow", timePtr(today.AddDate(0, 0, 1)), true},
		{"ended yesterday", timePtr(today.AddDate(0, 0, -1)), false},
	}
	for _, tc := range cases {
		if got := IsTermActive(tc.termEnd, today); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestMatch_ExactCaseInsensitive(t *testing.T) {
	officials := []model.Official{
		official("Juan Santos", "  barangay captain ", today.AddDate(1, 0, 0)),
	}
	entries := Match(officials, today)
	if entries[0].Name != "Juan Santos" || entries[0].IsPlaceholder {
		t.Errorf("captain not matched: %+v", entries[0])
	}
}

func TestMatch_InfrastructureAlias(t *testing.T) {
	officials := []model.Official{
		official("Pedro Reyes", "Chairman, Committee on Infrastructure", today.AddDate(1, 0, 0)),
	}
	entries := Match(officials, today)
	found := false
	for _, e := range entries {
		if e.Position == "Chairman, Committee on Infrastracture" {
			found = true
			if e.Name != "Pedro Reyes" {
				t.Errorf("alias not matched: %+v", e)
			}
		}
	}
	if !found {
		t.Fatal("canonical Infrastracture position missing from output")
	}
}

func TestMatch_CommitteeRemainderContainment(t *testing.T) {
	officials := []model.Official{
		// Encoded title is shorter than the canonical one; containment must
		// work in either direction.
		official("Maria Cruz", "Committee on Youth and Sports", today.AddDate(1, 0, 0)),
		official("Jose Ramos", "Kagawad - Committee on Peace and Order and Public Safety", today.AddDate(1, 0, 0)),
	}
	entries := Match(officials, today)
	byPos := map[string]Entry{}
	for _, e := range entries {
		byPos[e.Position] = e
	}
	if e := byPos["Chairman, Committee on Youth and Sports Development"]; e.Name != "Maria Cruz" {
		t.Errorf("short remainder: got %+v", e)
	}
	if e := byPos["Chairman, Committee on Peace and Order"]; e.Name != "Jose Ramos" {
		t.Errorf("long remainder: got %+v", e)
	}
}

func TestMatch_ExpiredTermIsVacant(t *testing.T) {
	officials := []model.Official{
		official("Old Captain", "Barangay Captain", today.AddDate(0, 0, -1)),
	}
	entries := Match(officials, today)
	if !entries[0].IsPlaceholder || entries[0].Name != "(Vacant)" {
		t.Errorf("expired captain should be vacant: %+v", entries[0])
	}
}

func TestMatch_AlwaysElevenInCanonicalOrder(t *testing.T) {
	entries := Match(nil, today)
	if len(entries) != 11 {
		t.Fatalf("got %d entries, want 11", len(entries))
	}
	for i, e := range entries {
		if e.Position != CanonicalPositions[i] {
			t.Errorf("entry %d: position %q, want %q", i, e.Position, CanonicalPositions[i])
		}
		if !e.IsPlaceholder {
			t.Errorf("entry %d should be a placeholder with no officials", i)
		}
	}
}

func TestMatch_Deterministic(t *testing.T) {
	officials := []model.Official{
		official("Juan Santos", "Barangay Captain", today.AddDate(1, 0, 0)),
		official("Ana Lopez", "Barangay Treasurer", today.AddDate(1, 0, 0)),
		official("Pedro Reyes", "Committee on Health", today.AddDate(1, 0, 0)),
	}
	first := Match(officials, today)
	second := Match(officials, today)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Match with identical inputs differs")
	}
}

func TestCaptain(t *testing.T) {
	officials := []model.Official{
		official("Juan Santos", "Barangay Captain", today.AddDate(1, 0, 0)),
	}
	if c := Captain(Match(officials, today)); c.Name != "Juan Santos" {
		t.Errorf("got %+v", c)
	}
	if c := Captain(Match(nil, today)); !c.IsPlaceholder {
		t.Errorf("expected vacant captain, got %+v", c)
	}
}
