package services

import (
	"context"
	"testing"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() (*AuthService, *utils.TokenIssuer) {
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(store.NewMemory(), issuer), issuer
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, issuer := newTestAuth()

	res, err := svc.Signup(ctx, models.SignupRequest{Email: "Ada@Example.com", Password: "hunter22", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)

	claims, err := issuer.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = svc.Signup(ctx, models.SignupRequest{Email: "ada@example.com", Password: "another1", Name: "Ada"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ADA@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestTOTPFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth()

	res, err := svc.Signup(ctx, models.SignupRequest{Email: "grace@example.com", Password: "cobol60", Name: "Grace"})
	require.NoError(t, err)
	sess := models.Session{UserID: res.User.ID, Email: res.User.Email}

	assert.ErrorIs(t, svc.VerifyTOTP(ctx, sess, "123456"), ErrInvalidInput)

	setup, err := svc.SetupTOTP(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)

	// setup alone does not enable 2FA
	_, err = svc.Login(ctx, models.LoginRequest{Email: "grace@example.com", Password: "cobol60"})
	require.NoError(t, err)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyTOTP(ctx, sess, code))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "grace@example.com", Password: "cobol60"})
	assert.ErrorIs(t, err, ErrTOTPRequired)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "grace@example.com", Password: "cobol60", TOTPCode: "000000x"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "grace@example.com", Password: "cobol60", TOTPCode: code})
	require.NoError(t, err)

	require.NoError(t, svc.DisableTOTP(ctx, sess, code))
	u, err := svc.Profile(ctx, sess)
	require.NoError(t, err)
	assert.False(t, u.TOTPEnabled)
}
