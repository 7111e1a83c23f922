// internal/applicant/etas_test.go
//
// Unit-tests for authorization-number minting.
//
// Run: go test ./internal/applicant -v

package applicant

import "testing"

func TestMintEtasNumberShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		n, err := MintEtasNumber()
		if err != nil {
			t.Fatalf("MintEtasNumber error: %v", err)
		}
		if !ValidEtasNumber(n) {
			t.Fatalf("minted number %q does not match 176 + seven digits", n)
		}
	}
}

func TestValidEtasNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1764821907", true},
		{"1760000000", true},
		{"1769999999", true},
		{"2764821907", false}, // wrong prefix
		{"176482190", false},  // too short
		{"17648219070", false},
		{"176482190a", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidEtasNumber(c.in); got != c.want {
			t.Errorf("ValidEtasNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
