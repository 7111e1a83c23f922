// internal/document/renderer_test.go
//
// Run: go test ./internal/document -v

package document

import (
	"errors"
	"reflect"
	"testing"
)

var testOpts = Options{
	VerificationBase: "https://etas.example.gov",
	InstitutionCode:  "FGS",
}

func TestBuildLayoutRequiresIdentity(t *testing.T) {
	m := Normalize(sampleRecord())
	m.ID = ""
	if _, err := BuildLayout(m, testOpts); !isValidation(err) {
		t.Fatalf("missing id: got %v, want ValidationError", err)
	}

	m = Normalize(sampleRecord())
	m.PassportNumber = "   "
	if _, err := BuildLayout(m, testOpts); !isValidation(err) {
		t.Fatalf("blank passport: got %v, want ValidationError", err)
	}
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func TestBuildLayoutDeterministic(t *testing.T) {
	m := Normalize(sampleRecord())
	a, err := BuildLayout(m, testOpts)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	b, err := BuildLayout(m, testOpts)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("layouts differ across renders of the same model")
	}
}

func TestBuildLayoutRegions(t *testing.T) {
	m := Normalize(sampleRecord())
	m.PhotoURL = PlaceholderPhoto // photo absence must not drop the region

	l, err := BuildLayout(m, testOpts)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	if l.Width != PageWidth || l.Height != PageHeight {
		t.Fatalf("canvas %gx%g, want A4 base", l.Width, l.Height)
	}

	var wm, micro, barcode, qr, photo bool
	for _, op := range l.Ops {
		switch v := op.(type) {
		case WatermarkOp:
			wm = true
			if v.Alpha == 0 || v.Angle >= 0 {
				t.Errorf("watermark must be faint and rotated: %+v", v)
			}
		case MicroTextOp:
			micro = true
		case BarcodeOp:
			barcode = true
			if v.Content != m.EtasNumber {
				t.Errorf("barcode encodes %q, want %q", v.Content, m.EtasNumber)
			}
		case QRCodeOp:
			qr = true
			want := "https://etas.example.gov/verify?etas=" + m.EtasNumber
			if v.Content != want {
				t.Errorf("qr payload %q, want %q", v.Content, want)
			}
		case ImageOp:
			if v.Border {
				photo = true
			}
		}
	}
	for name, ok := range map[string]bool{
		"watermark": wm, "micro-text": micro, "barcode": barcode,
		"qr": qr, "photo slot": photo,
	} {
		if !ok {
			t.Errorf("layout missing %s region", name)
		}
	}
}

func TestVerifyURLSchemes(t *testing.T) {
	query := VerifyURL(Options{VerificationBase: "https://h/"}, "1764821907")
	if query != "https://h/verify?etas=1764821907" {
		t.Fatalf("query scheme = %q", query)
	}
	path := VerifyURL(Options{VerificationBase: "https://h", PathStyleVerify: true}, "1764821907")
	if path != "https://h/verify/etas/1764821907" {
		t.Fatalf("path scheme = %q", path)
	}
}
