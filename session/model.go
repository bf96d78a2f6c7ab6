package session

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserProfile is the signed-in user as returned by the credential exchange.
type UserProfile struct {
	ID       int64  `json:"id" validate:"gte=0"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role,omitempty"`
}

// ValidateUser checks the profile's field constraints.
func ValidateUser(u UserProfile) error {
	return validate.Struct(u)
}

// State is a point-in-time copy of the session.
//
// Token != "" exactly when IsAuthenticated, and User is non-nil exactly
// when IsAuthenticated. IsHydrated becomes true once the persisted
// snapshot has been loaded and never reverts.
type State struct {
	Token           string       `json:"token,omitempty"`
	User            *UserProfile `json:"user,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsHydrated      bool         `json:"isHydrated"`
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Role returns the role of the signed-in user, or "" when signed out.
func (s State) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
