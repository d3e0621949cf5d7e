package routegate

import (
	"testing"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/session"
)

func authenticated(role string) session.Snapshot {
	return session.Snapshot{
		State:    session.StateAuthenticated,
		Identity: &domain.Identity{Email: "user@example.com", Role: role},
	}
}

func TestResolve_SuspendsBeforeHydration(t *testing.T) {
	d := Resolve("/patient/dashboard", []string{domain.RolePatient}, session.Snapshot{State: session.StateUninitialized})
	if d.Action != ActionSuspend {
		t.Fatalf("expected suspend, got %v", d.Action)
	}
}

func TestResolve_AnonymousRedirectsToLogin(t *testing.T) {
	d := Resolve("/doctor/dashboard", []string{domain.RoleDoctor}, session.Snapshot{State: session.StateAnonymous})
	if d.Action != ActionRedirect {
		t.Fatalf("expected redirect, got %v", d.Action)
	}
	if d.Target != LoginPath {
		t.Fatalf("expected target %q, got %q", LoginPath, d.Target)
	}
	if d.ReturnTo != "/doctor/dashboard" {
		t.Fatalf("expected return_to to carry the requested path, got %q", d.ReturnTo)
	}
}

func TestResolve_AllowsMatchingRole(t *testing.T) {
	d := Resolve("/patient/dashboard", []string{domain.RolePatient}, authenticated(domain.RolePatient))
	if d.Action != ActionAllow {
		t.Fatalf("expected allow, got %v", d.Action)
	}
}

func TestResolve_AllowsAnyAuthenticatedWhenNoRolesRequired(t *testing.T) {
	for _, role := range []string{domain.RolePatient, domain.RoleDoctor, domain.RoleHospital, domain.RoleLoanProvider} {
		d := Resolve("/profile", nil, authenticated(role))
		if d.Action != ActionAllow {
			t.Fatalf("role %s: expected allow, got %v", role, d.Action)
		}
	}
}

func TestResolve_WrongRoleRedirectsToOwnDashboard(t *testing.T) {
	cases := []struct {
		role string
		home string
	}{
		{domain.RolePatient, "/patient/dashboard"},
		{domain.RoleDoctor, "/doctor/dashboard"},
		{domain.RoleHospital, "/hospital/dashboard"},
		{domain.RoleLoanProvider, "/loan/dashboard"},
	}
	for _, tc := range cases {
		d := Resolve("/admin/panel", []string{"admin"}, authenticated(tc.role))
		if d.Action != ActionRedirect {
			t.Fatalf("role %s: expected redirect, got %v", tc.role, d.Action)
		}
		if d.Target != tc.home {
			t.Fatalf("role %s: expected redirect to %q, got %q", tc.role, tc.home, d.Target)
		}
		if d.ReturnTo != "" {
			t.Fatalf("role %s: dashboard redirect must not carry return_to, got %q", tc.role, d.ReturnTo)
		}
	}
}

func TestResolve_UnknownRoleTreatedAsAnonymous(t *testing.T) {
	d := Resolve("/patient/dashboard", []string{domain.RolePatient}, authenticated("superuser"))
	if d.Action != ActionRedirect || d.Target != LoginPath {
		t.Fatalf("expected login redirect for unknown role, got %+v", d)
	}
}

func TestResolve_AuthenticatedWithoutIdentityRedirects(t *testing.T) {
	d := Resolve("/profile", nil, session.Snapshot{State: session.StateAuthenticated})
	if d.Action != ActionRedirect || d.Target != LoginPath {
		t.Fatalf("expected login redirect, got %+v", d)
	}
}

func TestDashboardPath(t *testing.T) {
	if p, ok := DashboardPath(domain.RoleLoanProvider); !ok || p != "/loan/dashboard" {
		t.Fatalf("unexpected loan provider dashboard: %q ok=%v", p, ok)
	}
	if _, ok := DashboardPath("ghost"); ok {
		t.Fatalf("expected no dashboard for unknown role")
	}
}
