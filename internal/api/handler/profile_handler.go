package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// ProfileHandler exposes the caller's role-scoped profile.
type ProfileHandler struct {
	profileService ports.ProfileService
	sessions       SessionFactory
}

func NewProfileHandler(profileService ports.ProfileService, sessions SessionFactory) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, sessions: sessions}
}

// Get returns the caller's profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.Get(c.Request().Context(), role, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Update applies a partial profile update and writes the result through to
// the caller's session.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change; absent fields keep their value"
// @Success      200   {object}  profileResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	profile, err := h.profileService.Update(c.Request().Context(), role, email, req.toUpdate())
	if err != nil {
		return err
	}

	h.syncSession(c, profile)

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// FHIR returns the caller's FHIR Patient document.
//
// @Summary      Get own profile as a FHIR Patient resource
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.FHIRPatient
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/profile/fhir [get]
func (h *ProfileHandler) FHIR(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	doc, err := h.profileService.FHIR(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, doc)
}

// syncSession merges the update into the persisted session so the next page
// load sees the new profile. A session that has expired in the meantime is
// re-established from the fresh account document.
func (h *ProfileHandler) syncSession(c echo.Context, profile *domain.AccountProfile) {
	sessionID, _ := c.Get("session_id").(string)
	if sessionID == "" {
		return
	}

	ctx := c.Request().Context()
	store := h.sessions(sessionID)
	store.Initialize(ctx)
	if err := store.UpdateProfile(ctx, identityAsUpdate(profile.Identity())); errors.Is(err, domain.ErrNoActiveSession) {
		store.Login(ctx, profile.Identity())
	}
}

// identityAsUpdate lifts a full identity into a profile update touching every
// mutable field.
func identityAsUpdate(id domain.Identity) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName:        &id.FirstName,
		LastName:         &id.LastName,
		Phone:            &id.Phone,
		DateOfBirth:      &id.DateOfBirth,
		Address:          &id.Address,
		ProfileCompleted: &id.ProfileCompleted,
		Extra:            id.Extra,
	}
}
