// internal/document/normalize.go
//
// Record Normalizer.
//
// Context
//   The stored applicant row keeps fields exactly as submitted.  Print
//   normalization happens here: a DisplayModel is derived fresh on every
//   render, uppercased for print, dates reformatted to "02 Jan 2006", and
//   expiry computed as issuance plus ninety days.  The model is ephemeral
//   and never persisted, so a re-fetched record always renders
//   consistently with its creation time.
//
// Notes
//   •  A date that fails to parse passes through unchanged.  That is a
//      defined fallback for legacy rows, not an error.
//   •  A missing photo reference resolves to the placeholder identifier so
//      every region still renders.
//
//------------------------------------------------------------------------------

package document

import (
	"strings"
	"time"

	"github.com/ica-so/etas-portal/internal/applicant"
)

// ValidityDays is the fixed authorization lifetime from issuance.
const ValidityDays = 90

// displayDateLayout is the print format for all document dates.
const displayDateLayout = "02 Jan 2006"

// PlaceholderPhoto marks an absent applicant photo; the rasterizer draws a
// framed empty slot for it instead of fetching an image.
const PlaceholderPhoto = "placeholder"

// DisplayModel is the render-ready projection of one applicant record.
// All string fields are uppercased for print.
type DisplayModel struct {
	ID             string
	EtasNumber     string
	GivenName      string
	Surname        string
	DateOfBirth    string
	Sex            string
	Nationality    string
	PassportNumber string
	IssuePlace     string // first three characters of nationality
	PassportIssue  string
	PassportExpiry string
	VisitPurpose   string
	Sponsor        string
	PhotoURL       string

	FormattedIssueDate  string
	FormattedExpiryDate string
}

// Normalize derives a DisplayModel from rec.
func Normalize(rec *applicant.Record) *DisplayModel {
	m := &DisplayModel{
		ID:             rec.ID,
		EtasNumber:     rec.EtasNumber,
		GivenName:      up(rec.GivenName),
		Surname:        up(rec.Surname),
		DateOfBirth:    formatDate(rec.DateOfBirth),
		Sex:            up(rec.Sex),
		Nationality:    up(rec.Nationality),
		PassportNumber: up(rec.PassportNumber),
		PassportIssue:  formatDate(rec.PassportIssueDate),
		PassportExpiry: formatDate(rec.PassportExpiryDate),
		VisitPurpose:   up(rec.VisitPurpose),
		Sponsor:        up(rec.Sponsor),
		PhotoURL:       rec.PhotoURL,

		FormattedIssueDate:  rec.CreatedAt.Format(displayDateLayout),
		FormattedExpiryDate: rec.CreatedAt.AddDate(0, 0, ValidityDays).Format(displayDateLayout),
	}

	m.IssuePlace = issuePlace(m.Nationality)
	if strings.TrimSpace(m.PhotoURL) == "" {
		m.PhotoURL = PlaceholderPhoto
	}
	return m
}

// WatermarkLine is the repeated diagonal security string.  The trailing
// space keeps tiled repetitions separated.
func (m *DisplayModel) WatermarkLine() string {
	return strings.Join([]string{
		m.Nationality, m.PassportNumber, m.VisitPurpose,
		m.GivenName, m.Surname, m.DateOfBirth,
	}, " ") + " "
}

func up(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// issuePlace derives the passport issue place code from nationality.
func issuePlace(nationality string) string {
	if len(nationality) <= 3 {
		return nationality
	}
	return nationality[:3]
}

// formatDate reformats an ISO date (as submitted by the form's date input)
// to the print layout.  Unparseable input passes through untouched.
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339, displayDateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return raw
}
