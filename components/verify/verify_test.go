// components/verify/verify_test.go
//
// HTTP-level tests for the public verification endpoint, using sqlmock
// for the applicant store and the real templates on disk.
//
// Run: go test ./components/verify -v

package verify

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/view"
)

func newTestRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	view.Init(root)

	app := &component.App{
		Repo: applicant.NewRepository(sqlx.NewDb(db, "sqlmock")),
	}
	r := chi.NewRouter()
	(&Comp{}).Register(app, r)
	return r, mock
}

func etasRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "etas_number", "given_name", "surname", "date_of_birth", "sex",
		"email", "passport_number", "passport_issue_date",
		"passport_expiry_date", "nationality", "visit_purpose", "sponsor",
		"photo_url", "created_at", "updated_at",
	}).AddRow(
		"rec-1", "1764821907", "Amina", "Hassan", "1994-03-12", "Female",
		"a@example.com", "X7610849", "2020-01-15",
		"2030-01-14", "India", "Business", "",
		"", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Now(),
	)
}

func TestVerifyQueryScheme(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`SELECT .+ FROM applicant WHERE etas_number = \?`).
		WithArgs("1764821907").
		WillReturnRows(etasRows())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?etas=1764821907", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Authorization Verified", "1764821907", "AMINA", "X7610849"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestVerifyPathScheme(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`SELECT .+ FROM applicant WHERE etas_number = \?`).
		WithArgs("1764821907").
		WillReturnRows(etasRows())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify/etas/1764821907", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyUnknownNumber(t *testing.T) {
	r, mock := newTestRouter(t)
	mock.ExpectQuery(`SELECT .+ FROM applicant WHERE etas_number = \?`).
		WithArgs("1760000001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?etas=1760000001", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not Verified") {
		t.Error("body missing not-verified notice")
	}
}

func TestVerifyMalformedNumberSkipsDatabase(t *testing.T) {
	r, mock := newTestRouter(t)
	// No query expectation: junk input must never reach the store.

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify?etas=DROP-TABLE", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}
