package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/routegate"
	"github.com/carelink/health-exchange/internal/core/session"
)

// RoleGate enforces role-based access using the route gate's decision table.
// Anonymous callers get 401 with a login redirect carrying the requested
// path; authenticated callers of the wrong role get 403 with a redirect to
// their own dashboard.
func RoleGate(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := SessionFromContext(c)
			decision := routegate.Resolve(c.Request().URL.Path, allowedRoles, snap)
			metrics.GateDecisionsTotal.WithLabelValues(decision.Action.String()).Inc()

			if decision.Action == routegate.ActionAllow {
				return next(c)
			}

			status := http.StatusForbidden
			msg := "forbidden"
			if decision.Target == routegate.LoginPath {
				status = http.StatusUnauthorized
				msg = "authentication required"
			}
			return c.JSON(status, map[string]string{
				"error":     msg,
				"redirect":  decision.Target,
				"return_to": decision.ReturnTo,
			})
		}
	}
}

// SessionFromContext builds a session snapshot from the claims the Auth
// middleware injected. Requests without valid claims are anonymous; a claim
// with an unrecognised role is also treated as anonymous by the gate.
func SessionFromContext(c echo.Context) session.Snapshot {
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	if email == "" || role == "" {
		return session.Snapshot{State: session.StateAnonymous}
	}
	return session.Snapshot{
		State:    session.StateAuthenticated,
		Identity: &domain.Identity{Email: email, Role: role},
	}
}
