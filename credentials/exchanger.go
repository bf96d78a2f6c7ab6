package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goAuthState/session"
)

// Failure codes reported by an [Exchanger].
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnavailable        = "unavailable"
)

// Result is a successful credential exchange.
type Result struct {
	Token string
	User  session.UserProfile
}

// Exchanger trades an identifier and secret for a bearer token and profile.
type Exchanger interface {
	Exchange(ctx context.Context, identifier, secret string) (Result, error)
}

// ExchangerFunc adapts a function to [Exchanger].
type ExchangerFunc func(ctx context.Context, identifier, secret string) (Result, error)

func (f ExchangerFunc) Exchange(ctx context.Context, identifier, secret string) (Result, error) {
	return f(ctx, identifier, secret)
}

// Failure is a structured exchange failure.
type Failure struct {
	Code    string
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Code
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Rejected reports whether err is an invalid-credentials failure.
func Rejected(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeInvalidCredentials
}

func rejected(msg string) error {
	return &Failure{Code: CodeInvalidCredentials, Message: msg}
}

func unavailable(err error) error {
	return &Failure{Code: CodeUnavailable, Message: err.Error()}
}
