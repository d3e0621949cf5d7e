package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// ProfileService reads and updates the caller's role-scoped profile.
type ProfileService interface {
	Get(ctx context.Context, role, email string) (*domain.AccountProfile, error)
	// Update shallow-merges the given fields. Email and role are immutable.
	Update(ctx context.Context, role, email string, update domain.ProfileUpdate) (*domain.AccountProfile, error)
	// FHIR returns the FHIR Patient projection of a patient account.
	FHIR(ctx context.Context, email string) (*domain.FHIRPatient, error)
}
