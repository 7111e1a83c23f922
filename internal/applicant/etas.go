// internal/applicant/etas.go
//
// Authorization-number minting.
//
// Context
//   Every approved application carries a ten-digit eTAS number used on the
//   printed document, the barcode, and the public verification URL.  The
//   number starts with the fixed "176" agency prefix followed by seven
//   random digits, giving ten million possible values per prefix.
//
//   Randomness comes from crypto/rand so numbers are not guessable from
//   one another.  Uniqueness is enforced at the repository layer with a
//   DB check plus retry, backed by a UNIQUE index on etas_number.
//
//------------------------------------------------------------------------------

package applicant

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// etasPrefix is the fixed agency prefix on all issued numbers.
const etasPrefix = "176"

var etasPattern = regexp.MustCompile(`^176\d{7}$`)

// MintEtasNumber returns a fresh candidate authorization number.  Callers
// must verify uniqueness against storage before persisting.
func MintEtasNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000_000))
	if err != nil {
		return "", fmt.Errorf("mint etas number: %w", err)
	}
	return fmt.Sprintf("%s%07d", etasPrefix, n.Int64()), nil
}

// ValidEtasNumber reports whether s has the issued-number shape.  Used by
// the verify component to reject junk before touching the database.
func ValidEtasNumber(s string) bool {
	return etasPattern.MatchString(s)
}
