package applicant

import "time"

// Record mirrors one row in the persistent `applicant` table.  Name and
// passport fields are stored exactly as submitted; display normalization
// (uppercasing, date formatting) happens in the document package so the
// stored record stays a faithful copy of the application.
//
// EtasNumber is minted once at INSERT time and never changes afterward,
// even across record updates.
type Record struct {
	ID                 string    `db:"id"`
	EtasNumber         string    `db:"etas_number"`
	GivenName          string    `db:"given_name"`
	Surname            string    `db:"surname"`
	DateOfBirth        string    `db:"date_of_birth"`
	Sex                string    `db:"sex"`
	Email              string    `db:"email"`
	PassportNumber     string    `db:"passport_number"`
	PassportIssueDate  string    `db:"passport_issue_date"`
	PassportExpiryDate string    `db:"passport_expiry_date"`
	Nationality        string    `db:"nationality"`
	VisitPurpose       string    `db:"visit_purpose"`
	Sponsor            string    `db:"sponsor"`
	PhotoURL           string    `db:"photo_url"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}
