package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/google/uuid"
)

type AuthService struct {
	users  store.UserStore
	tokens *utils.TokenIssuer
	now    func() time.Time
}

func NewAuthService(users store.UserStore, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

func (s *AuthService) respond(u *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *u}, nil
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: email and a password of at least 6 characters are required", ErrInvalidInput)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		utils.LogAuthAction("signup", email, false)
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	utils.LogAuthAction("signup", email, true)
	return s.respond(u)
}

// Login checks the password and, when 2FA is enabled, the TOTP code.
// ErrTOTPRequired tells the client to retry with a code.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		utils.LogAuthAction("login", email, false)
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(req.Password, u.PasswordHash) {
		utils.LogAuthAction("login", email, false)
		return nil, ErrUnauthorized
	}
	if u.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !utils.VerifyTOTP(u.TOTPSecret, req.TOTPCode) {
			utils.LogAuthAction("login_2fa", email, false)
			return nil, fmt.Errorf("invalid 2FA code: %w", ErrUnauthorized)
		}
	}
	utils.LogAuthAction("login", email, true)
	return s.respond(u)
}

func (s *AuthService) Profile(ctx context.Context, sess models.Session) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

// SetupTOTP issues a new secret. 2FA stays off until VerifyTOTP confirms
// the authenticator produces valid codes.
func (s *AuthService) SetupTOTP(ctx context.Context, sess models.Session) (*models.TOTPSetupResponse, error) {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return nil, err
	}
	secret, url, err := utils.GenerateTOTPSecret(u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate TOTP secret: %w", err)
	}
	if err := s.users.UpdateTOTP(ctx, u.ID, secret, false); err != nil {
		return nil, storeErr(err, "store TOTP secret")
	}
	utils.LogAuthAction("2fa_setup", u.Email, true)
	return &models.TOTPSetupResponse{Secret: secret, URL: url}, nil
}

func (s *AuthService) VerifyTOTP(ctx context.Context, sess models.Session, code string) error {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return err
	}
	if u.TOTPSecret == "" {
		return fmt.Errorf("%w: run 2FA setup first", ErrInvalidInput)
	}
	if !utils.VerifyTOTP(u.TOTPSecret, code) {
		utils.LogAuthAction("2fa_verify", u.Email, false)
		return fmt.Errorf("%w: invalid 2FA code", ErrInvalidInput)
	}
	if err := s.users.UpdateTOTP(ctx, u.ID, u.TOTPSecret, true); err != nil {
		return storeErr(err, "enable 2FA")
	}
	utils.LogAuthAction("2fa_verify", u.Email, true)
	return nil
}

func (s *AuthService) DisableTOTP(ctx context.Context, sess models.Session, code string) error {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return err
	}
	if !u.TOTPEnabled {
		return nil
	}
	if !utils.VerifyTOTP(u.TOTPSecret, code) {
		return fmt.Errorf("%w: invalid 2FA code", ErrInvalidInput)
	}
	if err := s.users.UpdateTOTP(ctx, u.ID, "", false); err != nil {
		return storeErr(err, "disable 2FA")
	}
	utils.LogAuthAction("2fa_disable", u.Email, true)
	return nil
}
