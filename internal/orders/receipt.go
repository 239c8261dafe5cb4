package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// receiptDigits controls the width of the numeric part of a receipt code.
const receiptDigits = 5

// NewReceiptCode returns a short human-readable code like "C-04231": the
// uppercased first rune of seed (or 'X' when seed is blank) plus a random
// zero-padded number. The caller seeds it with the first item's name so
// receipts are loosely recognizable; the order row id stays the stable
// identifier.
func NewReceiptCode(seed string) (string, error) {
	letter := 'X'
	if trimmed := strings.TrimSpace(seed); trimmed != "" {
		letter = unicode.ToUpper([]rune(trimmed)[0])
	}

	bound := int64(1)
	for i := 0; i < receiptDigits; i++ {
		bound *= 10
	}

	n, err := rand.Int(rand.Reader, big.NewInt(bound))
	if err != nil {
		return "", errors.Wrap(err, "failed to draw receipt number")
	}

	return fmt.Sprintf("%c-%0*d", letter, receiptDigits, n.Int64()), nil
}
