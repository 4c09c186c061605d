package apperrors

import (
	"errors"
	"net/http"
)

// Machine readable error kind, stable across releases
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindAuth       Kind = "AUTH_ERROR"
	KindForbidden  Kind = "FORBIDDEN"
	KindNotFound   Kind = "NOT_FOUND"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// Error is a typed application error: a kind for machine matching,
// a message safe to show to the caller and an HTTP status hint.
// The HTTP layer renders these uniformly and never invents its own codes.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string, status int) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

var (
	// Login failures share one outward message so callers can't tell
	// a wrong password from a missing or disabled account
	ErrInvalidCredentials = New(KindAuth, "invalid email or password", http.StatusUnauthorized)
	ErrAccountDisabled    = New(KindAuth, "invalid email or password", http.StatusUnauthorized)

	ErrInvalidAccessToken   = New(KindAuth, "invalid or expired token", http.StatusUnauthorized)
	ErrInvalidRefreshToken  = New(KindAuth, "invalid refresh token", http.StatusUnauthorized)
	ErrRefreshTokenNotFound = New(KindAuth, "refresh token not found", http.StatusUnauthorized)
	ErrRefreshTokenRevoked  = New(KindAuth, "refresh token revoked", http.StatusUnauthorized)
	ErrRefreshTokenExpired  = New(KindAuth, "refresh token expired", http.StatusUnauthorized)

	ErrForbidden = New(KindForbidden, "access denied", http.StatusForbidden)

	ErrUserNotFound    = New(KindNotFound, "user not found", http.StatusNotFound)
	ErrStationNotFound = New(KindNotFound, "station not found", http.StatusNotFound)

	ErrEmailTaken = New(KindValidation, "email already exists", http.StatusBadRequest)
)

// KindOf extracts the kind from err; unknown errors are internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf extracts the HTTP status hint from err; unknown errors map to 500
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
