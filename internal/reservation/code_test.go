package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesNumericCodesOfConfiguredLength(t *testing.T) {
	for _, length := range []int{4, 6, 8, 12} {
		gen := NewCodeGenerator(length)
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit in code %q", code)
		}
	}
}

func TestGenerateFallsBackToSixDigits(t *testing.T) {
	for _, length := range []int{0, -1, 3, 13} {
		gen := NewCodeGenerator(length)
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}

func TestGenerateCodesAreNotSequential(t *testing.T) {
	gen := NewCodeGenerator(6)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		seen[code] = true
	}
	// 200 draws from a million-value space should essentially never collide
	// into fewer than 190 distinct codes.
	assert.Greater(t, len(seen), 190)
}
