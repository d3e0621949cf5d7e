package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/api/middleware"
	"github.com/carelink/health-exchange/internal/core/routegate"
)

// NavigationHandler resolves client-side navigations through the route gate
// so the frontend and the API agree on one decision table.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

type navigationResponse struct {
	Action   string `json:"action"`
	Target   string `json:"target,omitempty"`
	ReturnTo string `json:"return_to,omitempty"`
}

// Resolve gates a navigation for the caller, anonymous or not.
//
// @Summary      Resolve a navigation
// @Tags         navigation
// @Produce      json
// @Param        path   query  string  true   "Requested view path"
// @Param        roles  query  string  false  "Comma-separated roles allowed on the view"
// @Success      200  {object}  navigationResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/navigation/resolve [get]
func (h *NavigationHandler) Resolve(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" || !strings.HasPrefix(path, "/") {
		return echo.NewHTTPError(http.StatusBadRequest, "path must be an absolute view path")
	}

	var roles []string
	if raw := c.QueryParam("roles"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
	}

	snap := middleware.SessionFromContext(c)
	decision := routegate.Resolve(path, roles, snap)
	metrics.GateDecisionsTotal.WithLabelValues(decision.Action.String()).Inc()

	return c.JSON(http.StatusOK, navigationResponse{
		Action:   decision.Action.String(),
		Target:   decision.Target,
		ReturnTo: decision.ReturnTo,
	})
}
