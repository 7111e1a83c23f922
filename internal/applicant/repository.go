// internal/applicant/repository.go
//
// Applicant persistence.
//
// Context
//   CRUD for the `applicant` table plus the lookups the portal needs:
//   by record ID (document pipeline), by eTAS number (public verify), and
//   by passport number (status search).  All queries take a context so they
//   respect request deadlines.
//
// Workflow
//   •  Create mints an eTAS number, checks it against existing rows, and
//      retries on collision before INSERTing.  The UNIQUE index on
//      etas_number is the final arbiter if two inserts race.
//   •  Update rewrites every applicant-entered column but never touches
//      etas_number, and preserves the stored photo URL when the caller
//      passes an empty one (edit without re-upload).
//
//------------------------------------------------------------------------------

package applicant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by lookups when no matching row exists.
var ErrNotFound = errors.New("applicant: record not found")

// mintAttempts bounds collision retries during Create.
const mintAttempts = 5

// Repository wraps the portal database handle for applicant rows.
type Repository struct {
	db *sqlx.DB
}

// NewRepository returns a Repository bound to db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `
        id, etas_number, given_name, surname, date_of_birth, sex, email,
        passport_number, passport_issue_date, passport_expiry_date,
        nationality, visit_purpose, sponsor, photo_url,
        created_at, updated_at`

// Create inserts rec as a new application.  The record's ID and EtasNumber
// are assigned here and written back into rec before return.
func (r *Repository) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	number, err := r.mintUnique(ctx)
	if err != nil {
		return err
	}
	rec.EtasNumber = number

	const q = `
        INSERT INTO applicant (
            id, etas_number, given_name, surname, date_of_birth, sex, email,
            passport_number, passport_issue_date, passport_expiry_date,
            nationality, visit_purpose, sponsor, photo_url,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, rec.EtasNumber, rec.GivenName, rec.Surname,
		rec.DateOfBirth, rec.Sex, rec.Email,
		rec.PassportNumber, rec.PassportIssueDate, rec.PassportExpiryDate,
		rec.Nationality, rec.VisitPurpose, rec.Sponsor, rec.PhotoURL,
	)
	if err != nil {
		return fmt.Errorf("applicant create: %w", err)
	}
	return nil
}

// mintUnique generates candidate numbers until one is unused.
func (r *Repository) mintUnique(ctx context.Context) (string, error) {
	for i := 0; i < mintAttempts; i++ {
		candidate, err := MintEtasNumber()
		if err != nil {
			return "", err
		}
		var n int
		err = r.db.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM applicant WHERE etas_number = ?`, candidate)
		if err != nil {
			return "", fmt.Errorf("applicant mint check: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("applicant: could not mint unique etas number")
}

// Update rewrites applicant-entered fields on an existing row.  The eTAS
// number is immutable; an empty PhotoURL keeps the stored photo.
func (r *Repository) Update(ctx context.Context, rec *Record) error {
	const q = `
        UPDATE applicant SET
            given_name = ?, surname = ?, date_of_birth = ?, sex = ?,
            email = ?, passport_number = ?, passport_issue_date = ?,
            passport_expiry_date = ?, nationality = ?, visit_purpose = ?,
            sponsor = ?,
            photo_url = IF(? = '', photo_url, ?),
            updated_at = NOW()
        WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q,
		rec.GivenName, rec.Surname, rec.DateOfBirth, rec.Sex,
		rec.Email, rec.PassportNumber, rec.PassportIssueDate,
		rec.PassportExpiryDate, rec.Nationality, rec.VisitPurpose,
		rec.Sponsor,
		rec.PhotoURL, rec.PhotoURL,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("applicant update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports zero when values are unchanged too; confirm the row
		// exists before calling it missing.
		if _, err := r.ByID(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}

// ByID fetches one applicant row by record ID.
func (r *Repository) ByID(ctx context.Context, id string) (*Record, error) {
	const q = `SELECT` + selectColumns + ` FROM applicant WHERE id = ? LIMIT 1`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("applicant by id: %w", err)
	}
	return &rec, nil
}

// ByEtas fetches one applicant row by issued authorization number.
func (r *Repository) ByEtas(ctx context.Context, number string) (*Record, error) {
	const q = `SELECT` + selectColumns + ` FROM applicant WHERE etas_number = ? LIMIT 1`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("applicant by etas: %w", err)
	}
	return &rec, nil
}

// ByPassport fetches one applicant row by passport number.  The search is
// case-insensitive: input is uppercased to match stored values.
func (r *Repository) ByPassport(ctx context.Context, passport string) (*Record, error) {
	passport = strings.ToUpper(strings.TrimSpace(passport))
	const q = `SELECT` + selectColumns + ` FROM applicant WHERE UPPER(passport_number) = ? LIMIT 1`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, passport); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("applicant by passport: %w", err)
	}
	return &rec, nil
}
