package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test_secret")

	token, err := GenerateToken(42, "manager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	SetSecret("test_secret")

	_, err := ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	SetSecret("key_one")
	token, err := GenerateToken(1, "admin")
	require.NoError(t, err)

	SetSecret("key_two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
