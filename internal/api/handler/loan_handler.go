package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// LoanHandler implements the medical-loan endpoints for patients and
// loan providers.
type LoanHandler struct {
	loanService ports.LoanService
}

func NewLoanHandler(loanService ports.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Apply files a loan application for the calling patient.
//
// @Summary      Apply for a medical loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applyLoanRequest  true  "Loan application"
// @Success      201   {object}  loanResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/loans [post]
func (h *LoanHandler) Apply(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req applyLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	loan, err := h.loanService.Apply(c.Request().Context(), ports.ApplyLoanInput{
		PatientEmail:     email,
		LoanProviderID:   req.LoanProviderID,
		RequiredAmount:   req.RequiredAmount,
		LoanPurpose:      req.LoanPurpose,
		MedicalReason:    req.MedicalReason,
		TreatmentType:    req.TreatmentType,
		PreferredTenure:  req.PreferredTenure,
		MonthlyIncome:    req.MonthlyIncome,
		HasInsurance:     req.HasInsurance,
		HasExistingLoans: req.HasExistingLoans,
		HospitalName:     req.HospitalName,
		HospitalLocation: req.HospitalLocation,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// ListMine returns the calling patient's loan requests.
//
// @Summary      List own loan requests
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   loanResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/loans [get]
func (h *LoanHandler) ListMine(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	loans, err := h.loanService.ListForPatient(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanList(loans))
}

// Queue returns the calling provider's request queue, optionally filtered by
// status and creation date range.
//
// @Summary      List incoming loan requests
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Filter by status"
// @Param        from    query  string  false  "created_at lower bound (RFC 3339 date)"
// @Param        to      query  string  false  "created_at upper bound (RFC 3339 date)"
// @Success      200  {array}   loanResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/loans/queue [get]
func (h *LoanHandler) Queue(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	filter, err := queueFilter(c)
	if err != nil {
		return err
	}

	loans, err := h.loanService.ListForProvider(c.Request().Context(), email, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanList(loans))
}

// UpdateStatus records the provider's decision on a pending request.
//
// @Summary      Approve or reject a loan request
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        loan_id  path  string                   true  "Loan identifier"
// @Param        body     body  updateLoanStatusRequest  true  "Decision"
// @Success      200   {object}  loanResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/loans/{loan_id}/status [put]
func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateLoanStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	loan, err := h.loanService.UpdateStatus(c.Request().Context(), ports.UpdateLoanStatusInput{
		ProviderEmail:  email,
		LoanID:         c.Param("loan_id"),
		Status:         domain.LoanStatus(req.Status),
		ApprovedAmount: req.ApprovedAmount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// Respond records the patient accepting or declining an approved plan.
//
// @Summary      Respond to an approved loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        loan_id  path  string                true  "Loan identifier"
// @Param        body     body  respondToLoanRequest  true  "Accept or decline"
// @Success      200   {object}  loanResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/loans/{loan_id}/response [put]
func (h *LoanHandler) Respond(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req respondToLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	loan, err := h.loanService.Respond(c.Request().Context(), ports.RespondToLoanInput{
		PatientEmail: email,
		LoanID:       c.Param("loan_id"),
		Accept:       req.Accept,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// Analytics returns the provider dashboard aggregates.
//
// @Summary      Loan portfolio analytics
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.LoanAnalytics
// @Failure      401  {object}  errorResponse
// @Router       /v1/loans/analytics [get]
func (h *LoanHandler) Analytics(c echo.Context) error {
	email, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	analytics, err := h.loanService.Analytics(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analytics)
}

func queueFilter(c echo.Context) (ports.LoanListFilter, error) {
	var filter ports.LoanListFilter
	filter.Status = c.QueryParam("status")

	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		filter.DateFrom = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		// Inclusive upper bound covering the whole day.
		filter.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}
	return filter, nil
}
