package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

type shareFixture struct {
	repo       *stubShareRepo
	identities *stubIdentityRepo
	guard      *stubGuard
	audit      *recordingAudit
	svc        *ShareService
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	f := &shareFixture{
		repo:       &stubShareRepo{},
		identities: newStubIdentityRepo(),
		guard:      newStubGuard(),
		audit:      &recordingAudit{},
	}
	f.svc = NewShareService(f.repo, f.identities, f.guard, f.audit, zerolog.Nop())

	ctx := context.Background()
	seed := []*domain.AccountProfile{
		{Email: "alice@example.com", Role: domain.RolePatient, RoleID: "PAT-20260830-0001",
			FirstName: "Alice", LastName: "Smith", ProfileCompleted: true},
		{Email: "newbie@example.com", Role: domain.RolePatient, RoleID: "PAT-20260830-0002",
			FirstName: "Nora", LastName: "New"},
		{Email: "doc@example.com", Role: domain.RoleDoctor, RoleID: "DR-000001",
			FirstName: "Dana", LastName: "Reed", Specialization: "Cardiology", OrganizationID: "HOSP-000001"},
		{Email: "hospital@example.com", Role: domain.RoleHospital, RoleID: "HOSP-000001", Name: "City General"},
		{Email: "fund@example.com", Role: domain.RoleLoanProvider, RoleID: "LOANP-000001", Name: "MediFund"},
	}
	for _, p := range seed {
		if err := f.identities.Create(ctx, p); err != nil {
			t.Fatalf("seed %s: %v", p.Email, err)
		}
	}
	return f
}

func aliceShare() ports.ShareInput {
	return ports.ShareInput{
		PatientEmail:   "alice@example.com",
		PractitionerID: "DR-000001",
		OrganizationID: "HOSP-000001",
		BloodGroup:     "O+",
		Allergies:      "penicillin",
		IllnessReason:  "chest pain",
	}
}

func TestShareService_Recipients(t *testing.T) {
	f := newShareFixture(t)

	result, err := f.svc.Recipients(context.Background())
	if err != nil {
		t.Fatalf("Recipients returned error: %v", err)
	}
	if len(result.Doctors) != 1 || result.Doctors[0].ID != "DR-000001" || result.Doctors[0].Name != "Dana Reed" {
		t.Fatalf("unexpected doctors: %+v", result.Doctors)
	}
	if result.Doctors[0].Specialization != "Cardiology" {
		t.Fatalf("doctor specialization missing: %+v", result.Doctors[0])
	}
	if len(result.Hospitals) != 1 || result.Hospitals[0].Name != "City General" {
		t.Fatalf("unexpected hospitals: %+v", result.Hospitals)
	}
	if len(result.LoanProviders) != 1 || result.LoanProviders[0].ID != "LOANP-000001" {
		t.Fatalf("unexpected loan providers: %+v", result.LoanProviders)
	}
}

func TestShareService_Share_Success(t *testing.T) {
	f := newShareFixture(t)

	share, err := f.svc.Share(context.Background(), aliceShare())
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}
	if share.SharedID == "" {
		t.Fatalf("expected a shared id")
	}
	if share.PatientName != "Alice Smith" {
		t.Fatalf("unexpected patient name: %q", share.PatientName)
	}
	if len(f.repo.shares) != 1 {
		t.Fatalf("share not stored")
	}
	if got := f.audit.types(); len(got) != 1 || got[0] != domain.AuditProfileShared {
		t.Fatalf("expected one profile_shared audit event, got %v", got)
	}
}

func TestShareService_Share_IncompleteProfileRejected(t *testing.T) {
	f := newShareFixture(t)

	input := aliceShare()
	input.PatientEmail = "newbie@example.com"
	if _, err := f.svc.Share(context.Background(), input); !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestShareService_Share_DuplicateRejected(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Share(ctx, aliceShare()); err != nil {
		t.Fatalf("first share failed: %v", err)
	}
	if _, err := f.svc.Share(ctx, aliceShare()); !errors.Is(err, domain.ErrDuplicateShare) {
		t.Fatalf("expected ErrDuplicateShare, got %v", err)
	}

	// A different recipient pair is not a duplicate.
	input := aliceShare()
	input.PractitionerID = "DR-000099"
	if _, err := f.svc.Share(ctx, input); err != nil {
		t.Fatalf("share to a different practitioner failed: %v", err)
	}
}

func TestShareService_Share_GuardOutageDoesNotBlock(t *testing.T) {
	f := newShareFixture(t)
	f.guard.fail = true

	if _, err := f.svc.Share(context.Background(), aliceShare()); err != nil {
		t.Fatalf("guard outage must not block sharing, got %v", err)
	}
}

func TestShareService_List_PerRoleVisibility(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Share(ctx, aliceShare()); err != nil {
		t.Fatalf("share failed: %v", err)
	}

	patientView, err := f.svc.List(ctx, domain.RolePatient, "alice@example.com")
	if err != nil || len(patientView) != 1 {
		t.Fatalf("patient view: %v / %d shares", err, len(patientView))
	}
	doctorView, err := f.svc.List(ctx, domain.RoleDoctor, "doc@example.com")
	if err != nil || len(doctorView) != 1 {
		t.Fatalf("doctor view: %v / %d shares", err, len(doctorView))
	}
	hospitalView, err := f.svc.List(ctx, domain.RoleHospital, "hospital@example.com")
	if err != nil || len(hospitalView) != 1 {
		t.Fatalf("hospital view: %v / %d shares", err, len(hospitalView))
	}
	if _, err := f.svc.List(ctx, domain.RoleLoanProvider, "fund@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("loan providers must not list shares, got %v", err)
	}
}

func TestShareService_FHIRDocumentVisibility(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	share, err := f.svc.Share(ctx, aliceShare())
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}

	// The owning patient and the addressed practitioner both see the
	// document.
	for _, caller := range []struct{ role, email string }{
		{domain.RolePatient, "alice@example.com"},
		{domain.RoleDoctor, "doc@example.com"},
		{domain.RoleHospital, "hospital@example.com"},
	} {
		doc, err := f.svc.FHIRDocument(ctx, caller.role, caller.email, share.SharedID)
		if err != nil {
			t.Fatalf("%s: FHIRDocument returned error: %v", caller.role, err)
		}
		if doc.ResourceType != "Patient" || doc.ID != "PAT-20260830-0001" {
			t.Fatalf("%s: unexpected document: %+v", caller.role, doc)
		}
		if len(doc.Identifier) != 1 || doc.Identifier[0].Value != "PAT-20260830-0001" {
			t.Fatalf("%s: identifier not projected: %+v", caller.role, doc.Identifier)
		}
	}
}

func TestShareService_FHIRDocumentForbidden(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	share, err := f.svc.Share(ctx, aliceShare())
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}

	// A patient who does not own the share is rejected.
	if _, err := f.svc.FHIRDocument(ctx, domain.RolePatient, "newbie@example.com", share.SharedID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other patient, got %v", err)
	}
	// Loan providers never see clinical documents.
	if _, err := f.svc.FHIRDocument(ctx, domain.RoleLoanProvider, "fund@example.com", share.SharedID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for loan provider, got %v", err)
	}
	if _, err := f.svc.FHIRDocument(ctx, domain.RolePatient, "alice@example.com", "missing"); !errors.Is(err, domain.ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound, got %v", err)
	}
}

func TestShareService_Revoke(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()
	share, err := f.svc.Share(ctx, aliceShare())
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}

	// Only the owning patient may revoke.
	if err := f.svc.Revoke(ctx, "mallory@example.com", share.SharedID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := f.svc.Revoke(ctx, "alice@example.com", share.SharedID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if len(f.repo.shares) != 0 {
		t.Fatalf("share not deleted")
	}
	if err := f.svc.Revoke(ctx, "alice@example.com", share.SharedID); !errors.Is(err, domain.ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound, got %v", err)
	}
}
