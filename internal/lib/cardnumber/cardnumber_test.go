package cardnumber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		number, err := Generate()
		require.NoError(t, err)
		assert.Len(t, number, Length)
		for _, r := range number {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in %s", r, number)
		}
		seen[number] = struct{}{}
	}

	// Совпадение всех ста номеров означало бы сломанный генератор.
	assert.Greater(t, len(seen), 1)
}
