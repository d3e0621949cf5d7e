package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// ShareRepository persists shared health profiles.
type ShareRepository interface {
	Insert(ctx context.Context, share *domain.SharedProfile) error
	FindBySharedID(ctx context.Context, sharedID string) (*domain.SharedProfile, error)
	ListByPatient(ctx context.Context, patientEmail string) ([]*domain.SharedProfile, error)
	ListByPractitioner(ctx context.Context, practitionerID string) ([]*domain.SharedProfile, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.SharedProfile, error)
	Delete(ctx context.Context, sharedID string) error
}

// ShareGuard rejects repeated share submissions for the same patient and
// recipient pair within a TTL window.
type ShareGuard interface {
	IsDuplicate(ctx context.Context, patientEmail, practitionerID, organizationID string) (bool, error)
	Mark(ctx context.Context, patientEmail, practitionerID, organizationID string) error
}

// ShareInput carries one share-profile submission.
type ShareInput struct {
	PatientEmail   string
	PractitionerID string
	OrganizationID string
	BloodGroup     string
	Allergies      string
	IllnessReason  string
}

// Recipient is a share target shown in pickers. ID is the role-scoped
// identifier (DR-…, HOSP-…, LOANP-…).
type Recipient struct {
	ID             string
	Name           string
	Specialization string
}

// RecipientsResult lists all available share and loan targets.
type RecipientsResult struct {
	Doctors       []Recipient
	Hospitals     []Recipient
	LoanProviders []Recipient
}

// ShareService implements the record-sharing workflow.
type ShareService interface {
	Recipients(ctx context.Context) (*RecipientsResult, error)
	// Share creates a shared profile. The patient must have a completed
	// profile; duplicate submissions inside the guard window are rejected.
	Share(ctx context.Context, input ShareInput) (*domain.SharedProfile, error)
	// List returns the shares visible to the caller: patients see their own,
	// doctors and hospitals the ones addressed to them.
	List(ctx context.Context, role, email string) ([]*domain.SharedProfile, error)
	// FHIRDocument returns the shared patient's FHIR Patient resource,
	// subject to the same visibility rules as List.
	FHIRDocument(ctx context.Context, role, email, sharedID string) (*domain.FHIRPatient, error)
	// Revoke removes a share owned by the given patient.
	Revoke(ctx context.Context, patientEmail, sharedID string) error
}
