// Package routegate decides, for each navigation to a protected view, whether
// to render it, redirect to login, or redirect to the caller's own dashboard.
// It is a pure decision table: it never errors and never touches I/O.
package routegate

import (
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/session"
)

// LoginPath is the view anonymous users are sent to.
const LoginPath = "/login"

// dashboardPaths is the single role → canonical dashboard mapping. It is
// shared by the gate and by the post-login landing decision; note the
// loan_provider path does not follow the /{role}/dashboard pattern.
var dashboardPaths = map[string]string{
	domain.RolePatient:      "/patient/dashboard",
	domain.RoleDoctor:       "/doctor/dashboard",
	domain.RoleHospital:     "/hospital/dashboard",
	domain.RoleLoanProvider: "/loan/dashboard",
}

// DashboardPath returns the canonical dashboard path for a role. ok is false
// for unrecognised roles.
func DashboardPath(role string) (path string, ok bool) {
	path, ok = dashboardPaths[role]
	return path, ok
}

// Action is the kind of decision the gate produces.
type Action int

const (
	// ActionSuspend: the session is not hydrated yet; show a neutral loader
	// and re-evaluate once it is.
	ActionSuspend Action = iota
	// ActionAllow: render the requested view.
	ActionAllow
	// ActionRedirect: navigate to Target instead of the requested view.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "suspend"
	}
}

// Decision is the gate's verdict for one navigation.
type Decision struct {
	Action Action
	// Target is the redirect destination when Action is ActionRedirect.
	Target string
	// ReturnTo carries the originally requested path on login redirects so
	// the login view can send the user back afterwards.
	ReturnTo string
}

// Resolve gates a navigation to path for the given session snapshot.
// requiredRoles empty means any authenticated identity may render the view.
// Every input resolves to a decision; an identity with an unrecognised role
// is treated as anonymous rather than crashing the render.
func Resolve(path string, requiredRoles []string, snap session.Snapshot) Decision {
	if snap.State == session.StateUninitialized {
		return Decision{Action: ActionSuspend}
	}

	if snap.State != session.StateAuthenticated || snap.Identity == nil {
		return loginRedirect(path)
	}

	role := snap.Identity.Role
	home, known := DashboardPath(role)
	if !known {
		return loginRedirect(path)
	}

	if len(requiredRoles) > 0 && !contains(requiredRoles, role) {
		return Decision{Action: ActionRedirect, Target: home}
	}

	return Decision{Action: ActionAllow}
}

func loginRedirect(returnTo string) Decision {
	return Decision{Action: ActionRedirect, Target: LoginPath, ReturnTo: returnTo}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
