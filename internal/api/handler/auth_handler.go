package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/core/ports"
	"github.com/carelink/health-exchange/internal/core/session"
)

// SessionFactory builds the session store bound to one browser context.
type SessionFactory func(sessionID string) *session.Store

// AuthHandler handles registration, login, token refresh, and logout.
type AuthHandler struct {
	authService ports.AuthService
	sessions    SessionFactory
}

func NewAuthHandler(authService ports.AuthService, sessions SessionFactory) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Register creates a new role-scoped account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details; required fields depend on role"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Name:           req.Name,
		Specialization: req.Specialization,
		HospitalID:     req.HospitalID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "Registered successfully",
		Role:    result.Role,
		RoleID:  result.RoleID,
	})
}

// Login authenticates an account and establishes its session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	// Establish the persisted session for this browser context.
	store := h.sessions(result.SessionID)
	store.Login(c.Request().Context(), result.Identity)

	return c.JSON(http.StatusOK, loginResponse{
		Access:    result.Tokens.AccessToken,
		Refresh:   result.Tokens.RefreshToken,
		SessionID: result.SessionID,
		Landing:   result.Landing,
		User:      toIdentityResponse(result.Identity),
	})
}

// Refresh rotates an access token from a valid refresh token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{
		Access:  tokens.AccessToken,
		Refresh: tokens.RefreshToken,
	})
}

// Logout clears the caller's persisted session. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	sessionID, _ := c.Get("session_id").(string)

	store := h.sessions(sessionID)
	store.Initialize(c.Request().Context())
	store.Logout(c.Request().Context())

	return c.NoContent(http.StatusNoContent)
}
