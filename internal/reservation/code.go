package reservation

import (
	"crypto/rand"
	"fmt"
)

// CodeGenerator produces fixed-length numeric verification codes from a
// cryptographically adequate random source. Codes are the shared secret both
// parties present at pickup, so sequential or clock-derived values are not
// acceptable.
type CodeGenerator struct {
	length int
}

// NewCodeGenerator builds a generator for codes of the given digit count.
// Lengths outside 4..12 fall back to 6 digits.
func NewCodeGenerator(length int) *CodeGenerator {
	if length < 4 || length > 12 {
		length = 6
	}
	return &CodeGenerator{length: length}
}

// Generate returns a uniformly distributed numeric code. Rejection sampling
// keeps every digit unbiased: bytes 250..255 are discarded because 250 is the
// largest multiple of 10 below 256.
func (g *CodeGenerator) Generate() (string, error) {
	digits := make([]byte, 0, g.length)
	buf := make([]byte, 16)
	for len(digits) < g.length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			digits = append(digits, '0'+b%10)
			if len(digits) == g.length {
				break
			}
		}
	}
	return string(digits), nil
}
