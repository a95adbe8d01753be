package utils

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestAccessTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTOTP(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("a@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "otpauth://totp/")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, VerifyTOTP(secret, code))
	assert.False(t, VerifyTOTP(secret, "000000x"))
}
