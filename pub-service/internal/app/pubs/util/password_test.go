package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := "guinness-is-good"

	// Act
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, err1 := HashPassword("guinness-is-good")
	hash2, err2 := HashPassword("guinness-is-good")

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует random salt
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("guinness-is-good")
	require.NoError(t, err)

	assert.True(t, CheckPassword("guinness-is-good", hash))
	assert.False(t, CheckPassword("smithwicks", hash))
	assert.False(t, CheckPassword("guinness-is-good", "not-a-bcrypt-hash"))
}
