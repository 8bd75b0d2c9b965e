package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "alex_1a2b3c4d", "alex@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := ValidateTokenStringToUUID(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.ID)
	assert.Equal(t, "alex_1a2b3c4d", userCtx.Username)
	assert.Equal(t, "alex@example.com", userCtx.Email)
}

func TestValidateTokenErrors(t *testing.T) {
	userID := uuid.New()

	t.Run("empty token", func(t *testing.T) {
		_, err := ValidateTokenStringToUUID("", testSecret)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ValidateTokenStringToUUID("not-a-token", testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken(userID, "u", "u@example.com", testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ValidateTokenStringToUUID(token, "other-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(userID, "u", "u@example.com", testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateTokenStringToUUID(token, testSecret)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("accepts bearer prefix", func(t *testing.T) {
		token, err := GenerateToken(userID, "u", "u@example.com", testSecret, time.Hour)
		require.NoError(t, err)

		userCtx, err := ValidateTokenStringToUUID("Bearer "+token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, userID, userCtx.ID)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromHeader("Bearer abc123"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("abc123"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc123"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer abc 123"))
}
