package application

import "errors"

// Failure taxonomy for account operations. Handlers map these to HTTP
// statuses; anything not listed here surfaces as a generic server fault.
var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrEmailDelivery      = errors.New("email delivery failed")
)
