package random

import (
	crand "crypto/rand"
	"math/big"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// StringSecure returns a string of length characters drawn from a
// cryptographically secure source.
func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}
