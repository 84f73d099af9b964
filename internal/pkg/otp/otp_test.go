package otp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non-digit in code %q", code)
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding into one value would
	// indicate a broken generator.
	require.Greater(t, len(seen), 1)
}
