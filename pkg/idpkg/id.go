// Package idpkg generates fixed-length numeric string identifiers.
package idpkg

import (
	"crypto/rand"
	"math/big"
)

var ten = big.NewInt(10)

// Numeric returns a random numeric string of exactly n digits.
//
// The first digit is never zero so the identifier keeps its length as a
// number. Identifiers are high-entropy but not guaranteed unique; callers
// must verify against a uniqueness constraint and regenerate on collision.
func Numeric(n int) (string, error) {
	if n < 1 {
		return "", nil
	}

	digits := make([]byte, n)

	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", err
	}

	digits[0] = byte('1' + first.Int64())

	for i := 1; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}

		digits[i] = byte('0' + d.Int64())
	}

	return string(digits), nil
}
