package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// FHIRRepository stores the FHIR Patient projection of each patient account,
// one document per patient email.
type FHIRRepository interface {
	Upsert(ctx context.Context, patientEmail string, resource *domain.FHIRPatient) error
	// FindByPatientEmail returns domain.ErrUserNotFound when no projection
	// has been stored yet.
	FindByPatientEmail(ctx context.Context, patientEmail string) (*domain.FHIRPatient, error)
}
