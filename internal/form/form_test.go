// internal/form/form_test.go
//
// Unit-tests for form definitions, CSRF tokens, and validation.
//
// Run: go test ./internal/form -v

package form

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
id: apply/test
title: Test Form
fields:
  - name: given_name
    label: Given Name
    type: text
    required: true
    minlength: 2
    maxlength: 60
  - name: sex
    label: Sex
    type: select
    required: true
    options: [Male, Female]
  - name: date_of_birth
    label: Date of Birth
    type: date
    required: true
  - name: photo
    label: Photo
    type: file
    accept: image/*
    maxbytes: 1024
`

func loadTestForm(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	fd, err := LoadFormDef(path)
	if err != nil {
		t.Fatalf("LoadFormDef: %v", err)
	}
	register(fd)
}

func validPost(t *testing.T) url.Values {
	t.Helper()
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return url.Values{
		"csrf_token":    {tok},
		"render_ts":     {fmt.Sprint(time.Now().Add(-10 * time.Second).UnixMicro())},
		"given_name":    {"Amina"},
		"sex":           {"Female"},
		"date_of_birth": {"1994-03-12"},
	}
}

func TestCSRFRoundTrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatal("fresh token failed verification")
	}
	if VerifyToken(tok + "x") {
		t.Fatal("tampered token verified")
	}
	if VerifyToken("") {
		t.Fatal("empty token verified")
	}
}

func TestValidateFormAccepts(t *testing.T) {
	loadTestForm(t)

	clean, errs := ValidateForm("apply/test", validPost(t))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if clean["given_name"] != "Amina" || clean["sex"] != "Female" {
		t.Fatalf("sanitized values wrong: %+v", clean)
	}
}

func TestValidateFormRejectsFastSubmit(t *testing.T) {
	loadTestForm(t)

	posted := validPost(t)
	posted.Set("render_ts", fmt.Sprint(time.Now().UnixMicro()))
	if _, errs := ValidateForm("apply/test", posted); len(errs) == 0 {
		t.Fatal("instant submission should be rejected")
	}
}

func TestValidateFormRejectsBadOption(t *testing.T) {
	loadTestForm(t)

	posted := validPost(t)
	posted.Set("sex", "Other")
	_, errs := ValidateForm("apply/test", posted)
	if len(errs) != 1 || errs[0].Name != "sex" {
		t.Fatalf("errors = %+v, want single sex error", errs)
	}
}

func TestValidateFormRequiresFields(t *testing.T) {
	loadTestForm(t)

	posted := validPost(t)
	posted.Del("given_name")
	_, errs := ValidateForm("apply/test", posted)
	if len(errs) != 1 || errs[0].Name != "given_name" {
		t.Fatalf("errors = %+v, want given_name required", errs)
	}
}

func TestValidateFormKeepsLiteralText(t *testing.T) {
	loadTestForm(t)

	// Markup-significant characters must survive validation untouched;
	// escaping is the template boundary's job, and escaping here would
	// corrupt the stored record and the printed document.
	posted := validPost(t)
	posted.Set("given_name", `O'Brien & Sons`)
	clean, errs := ValidateForm("apply/test", posted)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if clean["given_name"] != `O'Brien & Sons` {
		t.Fatalf("clean value = %q, want the literal input", clean["given_name"])
	}
}

func TestAcceptMatches(t *testing.T) {
	cases := []struct {
		accept, ct string
		want       bool
	}{
		{"image/*", "image/png", true},
		{"image/*", "image/jpeg", true},
		{"image/*", "application/pdf", false},
		{"image/png,image/jpeg", "image/jpeg", true},
		{"image/png", "IMAGE/PNG", true},
		{"", "image/png", false},
	}
	for _, c := range cases {
		if got := acceptMatches(c.accept, c.ct); got != c.want {
			t.Errorf("acceptMatches(%q, %q) = %v, want %v", c.accept, c.ct, got, c.want)
		}
	}
}
