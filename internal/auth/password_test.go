package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret", hash, "hash must not be the plaintext")

	assert.NoError(t, ComparePassword(hash, "s3cret"))
}

func TestComparePassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 10)
	require.NoError(t, err)

	assert.Error(t, ComparePassword(hash, "not-the-password"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := HashPassword("s3cret", 10)
	require.NoError(t, err)
	second, err := HashPassword("s3cret", 10)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash carries its own salt")
}
