package models

import "time"

// ============================================================================
// USER MODEL
// ============================================================================

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	TOTPSecret   string    `json:"-"` // Never expose in JSON
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session identifies the caller of a request. Services receive it
// explicitly instead of reading the current user from shared state.
type Session struct {
	UserID string
	Email  string
}

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ============================================================================
// 2FA
// ============================================================================

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// ============================================================================
// NOTIFICATIONS
// ============================================================================

type NotificationType string

const (
	NotifyIncomeDetected  NotificationType = "income_detected"
	NotifyBonusCompleted  NotificationType = "bonus_completed"
	NotifyBonusAlert      NotificationType = "bonus_alert"
	NotifyTransferCreated NotificationType = "transfer_created"
)

type Notification struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Data      any              `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
