// internal/applicant/repository_test.go
//
// Unit-tests for applicant persistence using sqlmock.
//
// Run: go test ./internal/applicant -v

package applicant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func recordRows(rec *Record) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "etas_number", "given_name", "surname", "date_of_birth", "sex",
		"email", "passport_number", "passport_issue_date",
		"passport_expiry_date", "nationality", "visit_purpose", "sponsor",
		"photo_url", "created_at", "updated_at",
	}).AddRow(
		rec.ID, rec.EtasNumber, rec.GivenName, rec.Surname,
		rec.DateOfBirth, rec.Sex, rec.Email, rec.PassportNumber,
		rec.PassportIssueDate, rec.PassportExpiryDate, rec.Nationality,
		rec.VisitPurpose, rec.Sponsor, rec.PhotoURL,
		rec.CreatedAt, rec.UpdatedAt,
	)
}

func TestCreateMintsNumberAndInserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applicant WHERE etas_number = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO applicant`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &Record{
		GivenName:      "Amina",
		Surname:        "Hassan",
		PassportNumber: "X7610849",
		Nationality:    "India",
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Create did not assign a record ID")
	}
	if !ValidEtasNumber(rec.EtasNumber) {
		t.Fatalf("Create assigned malformed number %q", rec.EtasNumber)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	repo, mock := newMockRepo(t)

	// First candidate collides, second is free.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applicant WHERE etas_number = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applicant WHERE etas_number = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO applicant`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &Record{GivenName: "Amina", PassportNumber: "X7610849"}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM applicant WHERE id = \?`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ByID error = %v, want ErrNotFound", err)
	}
}

func TestByPassportUppercasesInput(t *testing.T) {
	repo, mock := newMockRepo(t)

	stored := &Record{
		ID:             "rec-1",
		EtasNumber:     "1764821907",
		GivenName:      "Amina",
		PassportNumber: "X7610849",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	mock.ExpectQuery(`SELECT .+ FROM applicant WHERE UPPER\(passport_number\) = \?`).
		WithArgs("X7610849").
		WillReturnRows(recordRows(stored))

	got, err := repo.ByPassport(context.Background(), "  x7610849 ")
	if err != nil {
		t.Fatalf("ByPassport error: %v", err)
	}
	if got.ID != "rec-1" || got.EtasNumber != "1764821907" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateKeepsNumberAndPhoto(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE applicant SET`).
		WithArgs(
			"Amina", "Hassan", "1994-03-12", "Female",
			"amina@example.com", "X7610849", "2020-01-15",
			"2030-01-14", "India", "Business",
			"",
			"", "", // empty photo keeps stored value
			"rec-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &Record{
		ID:                 "rec-1",
		EtasNumber:         "1764821907",
		GivenName:          "Amina",
		Surname:            "Hassan",
		DateOfBirth:        "1994-03-12",
		Sex:                "Female",
		Email:              "amina@example.com",
		PassportNumber:     "X7610849",
		PassportIssueDate:  "2020-01-15",
		PassportExpiryDate: "2030-01-14",
		Nationality:        "India",
		VisitPurpose:       "Business",
	}
	if err := repo.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
