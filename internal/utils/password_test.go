package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	// Cost 0 and absurd costs must still produce a verifiable hash.
	for _, cost := range []int{0, -3, 99} {
		hash, err := HashPassword("s3cret", cost)
		require.NoError(t, err, "cost %d", cost)
		assert.True(t, VerifyPassword(hash, "s3cret"), "cost %d", cost)
	}
}
