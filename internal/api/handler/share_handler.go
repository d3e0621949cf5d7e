package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/core/ports"
)

// ShareHandler implements the record-sharing endpoints.
type ShareHandler struct {
	shareService ports.ShareService
}

func NewShareHandler(shareService ports.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// Recipients lists all selectable share and loan targets.
//
// @Summary      List available recipients
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recipientsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/shares/recipients [get]
func (h *ShareHandler) Recipients(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	result, err := h.shareService.Recipients(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, recipientsResponse{
		Doctors:       toRecipientList(result.Doctors),
		Hospitals:     toRecipientList(result.Hospitals),
		LoanProviders: toRecipientList(result.LoanProviders),
	})
}

// Share releases the caller's health profile to a practitioner.
//
// @Summary      Share own health profile
// @Tags         shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      shareRequest  true  "Share target and health details"
// @Success      201   {object}  sharedProfileResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      412   {object}  errorResponse
// @Router       /v1/shares [post]
func (h *ShareHandler) Share(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	share, err := h.shareService.Share(c.Request().Context(), ports.ShareInput{
		PatientEmail:   email,
		PractitionerID: req.PractitionerID,
		OrganizationID: req.OrganizationID,
		BloodGroup:     req.BloodGroup,
		Allergies:      req.Allergies,
		IllnessReason:  req.IllnessReason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSharedProfileResponse(share))
}

// List returns the shares visible to the caller.
//
// @Summary      List shared profiles
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   sharedProfileResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/shares [get]
func (h *ShareHandler) List(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	shares, err := h.shareService.List(c.Request().Context(), role, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSharedProfileList(shares))
}

// FHIR returns the shared patient's FHIR Patient document, the machine
// readable view shown next to the clinical document.
//
// @Summary      Get the FHIR document behind a share
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Param        shared_id  path  string  true  "Shared profile identifier"
// @Success      200  {object}  domain.FHIRPatient
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shares/{shared_id}/fhir [get]
func (h *ShareHandler) FHIR(c echo.Context) error {
	email, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	sharedID := c.Param("shared_id")
	if sharedID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shared_id is required")
	}

	doc, err := h.shareService.FHIRDocument(c.Request().Context(), role, email, sharedID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, doc)
}

// Revoke removes one of the caller's shares.
//
// @Summary      Revoke a shared profile
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Param        shared_id  path  string  true  "Shared profile identifier"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shares/{shared_id} [delete]
func (h *ShareHandler) Revoke(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	sharedID := c.Param("shared_id")
	if sharedID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shared_id is required")
	}

	if err := h.shareService.Revoke(c.Request().Context(), email, sharedID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
