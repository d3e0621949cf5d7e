package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
	"github.com/carelink/health-exchange/internal/core/routegate"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthService implements registration, login, and token rotation.
type AuthService struct {
	repo       ports.IdentityRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, accessTTL: accessTTL, refreshTTL: refreshTTL, logger: logger}
}

// Register creates a role-scoped account. Required fields vary by role;
// doctors must name an existing hospital.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	now := time.Now().UTC()
	profile := &domain.AccountProfile{
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: now,
	}

	switch input.Role {
	case domain.RolePatient:
		if input.FirstName == "" || input.LastName == "" {
			return nil, domain.ErrInvalidCredentials
		}
		profile.FirstName = input.FirstName
		profile.LastName = input.LastName
		profile.RoleID = generatePatientID(now)

	case domain.RoleDoctor:
		if input.FirstName == "" || input.LastName == "" || input.Specialization == "" || input.HospitalID == "" {
			return nil, domain.ErrInvalidCredentials
		}
		if _, err := s.repo.FindOrganization(ctx, input.HospitalID); err != nil {
			return nil, domain.ErrUnknownOrganisation
		}
		profile.FirstName = input.FirstName
		profile.LastName = input.LastName
		profile.Specialization = input.Specialization
		profile.OrganizationID = input.HospitalID
		profile.RoleID = generatePractitionerID()

	case domain.RoleHospital:
		if input.Name == "" {
			return nil, domain.ErrInvalidCredentials
		}
		profile.Name = input.Name
		profile.RoleID = generateOrganizationID()

	case domain.RoleLoanProvider:
		if input.Name == "" {
			return nil, domain.ErrInvalidCredentials
		}
		profile.Name = input.Name
		profile.RoleID = generateLoanProviderID()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("role", profile.Role).Str("role_id", profile.RoleID).Msg("account registered")
	return &ports.RegisterResult{Role: profile.Role, RoleID: profile.RoleID}, nil
}

// Login verifies credentials against the role-scoped account and returns the
// token pair, the session identity, and the canonical landing path.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	tokens, err := s.generateTokens(profile, sessionID)
	if err != nil {
		return nil, err
	}

	landing, _ := routegate.DashboardPath(profile.Role)
	metrics.LoginsTotal.WithLabelValues(profile.Role).Inc()
	s.logger.Info().Str("role", profile.Role).Str("session_id", sessionID).Msg("login")

	return &ports.LoginResult{
		Tokens:    *tokens,
		Identity:  profile.Identity(),
		SessionID: sessionID,
		Landing:   landing,
	}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is returned unchanged; it stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return nil, domain.ErrInvalidCredentials
	}

	email, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.signToken(profile, sessionID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *AuthService) generateTokens(profile *domain.AccountProfile, sessionID string) (*ports.TokenPair, error) {
	access, err := s.signToken(profile, sessionID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(profile, sessionID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(profile *domain.AccountProfile, sessionID, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  profile.Email,
		"role": profile.Role,
		"sid":  sessionID,
		"typ":  typ,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
