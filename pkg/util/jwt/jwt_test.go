package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	Init("test-secret-test-secret-test-secret", 5)

	token, err := GenerateAccessToken("u1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "access_token", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	Init("secret-one", 5)
	token, err := GenerateAccessToken("u1")
	require.NoError(t, err)

	Init("secret-two", 5)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	Init("secret", -1)
	token, err := GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}
