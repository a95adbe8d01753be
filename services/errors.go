package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInactiveAccount   = errors.New("account is inactive")
	ErrSameAccount       = errors.New("source and destination accounts are the same")
	ErrNoEligibleCard    = errors.New("no eligible credit card")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTOTPRequired      = errors.New("2FA code required")
)
