// internal/document/normalize_test.go
//
// Run: go test ./internal/document -v

package document

import (
	"strings"
	"testing"
	"time"

	"github.com/ica-so/etas-portal/internal/applicant"
)

func sampleRecord() *applicant.Record {
	return &applicant.Record{
		ID:                 "rec-1",
		EtasNumber:         "1764821907",
		GivenName:          "Amina",
		Surname:            "Hassan",
		DateOfBirth:        "1994-03-12",
		Sex:                "Female",
		Nationality:        "India",
		PassportNumber:     "X7610849",
		PassportIssueDate:  "2020-01-15",
		PassportExpiryDate: "2030-01-14",
		VisitPurpose:       "Business",
		Sponsor:            "Acme Logistics",
		PhotoURL:           "https://cdn.example/photos/X7610849_1.png",
		CreatedAt:          time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestExpiryIsNinetyDaysAfterIssuance(t *testing.T) {
	rec := sampleRecord()
	m := Normalize(rec)

	if m.FormattedIssueDate != "01 Aug 2026" {
		t.Fatalf("issue date = %q", m.FormattedIssueDate)
	}
	if m.FormattedExpiryDate != "30 Oct 2026" {
		t.Fatalf("expiry date = %q, want 30 Oct 2026", m.FormattedExpiryDate)
	}

	// The expiry must depend only on created_at, not on render time: a
	// second normalization of the same record gives the same result.
	if m2 := Normalize(rec); m2.FormattedExpiryDate != m.FormattedExpiryDate {
		t.Fatalf("expiry unstable across renders: %q vs %q",
			m.FormattedExpiryDate, m2.FormattedExpiryDate)
	}
}

func TestNormalizeUppercasesAndDerives(t *testing.T) {
	m := Normalize(sampleRecord())

	if m.GivenName != "AMINA" || m.Nationality != "INDIA" {
		t.Fatalf("fields not uppercased: %+v", m)
	}
	if m.IssuePlace != "IND" {
		t.Fatalf("issue place = %q, want IND", m.IssuePlace)
	}
	if m.DateOfBirth != "12 Mar 1994" {
		t.Fatalf("date of birth = %q", m.DateOfBirth)
	}
}

func TestNormalizeKeepsLiteralCharacters(t *testing.T) {
	rec := sampleRecord()
	rec.Surname = "O'Brien & Sons"
	m := Normalize(rec)

	// The document prints exactly what was stored; entity-encoded text
	// would appear literally on the page and in the watermark.
	if m.Surname != "O'BRIEN & SONS" {
		t.Fatalf("surname = %q, want the literal characters uppercased", m.Surname)
	}
	if !strings.Contains(m.WatermarkLine(), "O'BRIEN & SONS") {
		t.Fatalf("watermark line %q lost literal characters", m.WatermarkLine())
	}
}

func TestWatermarkLineOrder(t *testing.T) {
	m := Normalize(sampleRecord())
	line := m.WatermarkLine()

	if !strings.Contains(line, "INDIA X7610849") {
		t.Fatalf("watermark line %q missing nationality+passport pair", line)
	}
	if !strings.HasSuffix(line, " ") {
		t.Fatalf("watermark line must end with a separator space: %q", line)
	}
}

func TestUnparseableDatePassesThrough(t *testing.T) {
	rec := sampleRecord()
	rec.DateOfBirth = "sometime in spring"
	m := Normalize(rec)
	if m.DateOfBirth != "sometime in spring" {
		t.Fatalf("raw date should pass through unchanged, got %q", m.DateOfBirth)
	}
}

func TestMissingPhotoResolvesToPlaceholder(t *testing.T) {
	rec := sampleRecord()
	rec.PhotoURL = "  "
	if m := Normalize(rec); m.PhotoURL != PlaceholderPhoto {
		t.Fatalf("photo URL = %q, want placeholder", m.PhotoURL)
	}
}
