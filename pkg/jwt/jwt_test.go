package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateAccessToken(42, "reception", "receptionist")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "reception", claims.Username)
	assert.Equal(t, "receptionist", claims.Role)
	assert.NotEmpty(t, claims.SessionID)
	assert.Equal(t, "studyhall-membership", claims.Issuer)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	token, err := svc.GenerateAccessToken(42, "reception", "receptionist")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.GenerateAccessToken(42, "reception", "receptionist")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.True(t, svc.IsTokenExpired(token))
}

func TestSessionIDUniquePerToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	first, err := svc.GenerateAccessToken(42, "reception", "receptionist")
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(42, "reception", "receptionist")
	require.NoError(t, err)

	claimsFirst, err := svc.ValidateAccessToken(first)
	require.NoError(t, err)
	claimsSecond, err := svc.ValidateAccessToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, claimsFirst.SessionID, claimsSecond.SessionID)
}
