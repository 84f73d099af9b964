package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the fixed length of generated verification codes.
const CodeLength = 6

// GenerateCode produces a fixed-length numeric code. Each digit is drawn
// independently via crypto/rand.Int so no modulo bias is introduced.
func GenerateCode() (string, error) {
	b := make([]byte, CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		b[i] = '0' + byte(n.Int64())
	}
	return string(b), nil
}
