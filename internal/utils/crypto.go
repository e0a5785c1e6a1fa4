// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// RandomDigits returns n random decimal digits with a non-zero first digit.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}

	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Mul(lo, big.NewInt(9))

	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return v.Add(v, lo).String(), nil
}
