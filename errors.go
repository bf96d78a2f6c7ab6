package goAuthState

import (
	"errors"

	"github.com/MrEthical07/goAuthState/session"
)

var (
	// ErrInvalidArgument is returned for malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidToken is returned by Login for an empty token.
	ErrInvalidToken = session.ErrInvalidToken
	// ErrInvalidUser is returned when a profile fails validation.
	ErrInvalidUser = session.ErrInvalidUser
	// ErrNotAuthenticated is returned by SetUser while signed out.
	ErrNotAuthenticated = session.ErrNotAuthenticated
	// ErrEngineNotReady is returned when an operation needs a component that
	// was not configured at build time.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrCredentialsRejected is returned when the exchanger rejects the
	// identifier or secret.
	ErrCredentialsRejected = errors.New("credentials rejected")
	// ErrExchangeUnavailable is returned when the exchanger fails for any
	// other reason.
	ErrExchangeUnavailable = errors.New("credential exchange unavailable")
	// ErrLoginThrottled is returned when too many exchanges for the
	// identifier or client IP were rejected recently.
	ErrLoginThrottled = errors.New("login throttled")
	// ErrPermissionDenied is returned by guarded helpers when the current
	// role lacks access.
	ErrPermissionDenied = errors.New("permission denied")
)
