package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// RegisterInput carries registration data. Which fields are required depends
// on the role: patients and doctors need first/last names, doctors
// additionally a specialization and an employing hospital, hospitals and loan
// providers a display name.
type RegisterInput struct {
	Email    string
	Password string
	Role     string

	FirstName      string
	LastName       string
	Name           string
	Specialization string
	HospitalID     string
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	Role   string
	RoleID string
}

// TokenPair is an access token plus the refresh token used to rotate it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned after a successful login. Landing is the canonical
// dashboard path for the role, and SessionID names the browser context the
// session store persists under.
type LoginResult struct {
	Tokens    TokenPair
	Identity  domain.Identity
	SessionID string
	Landing   string
}

// AuthService implements registration, login, and access-token rotation.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Refresh mints a new access token from a valid refresh token.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
