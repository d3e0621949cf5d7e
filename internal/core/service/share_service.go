package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// ShareService implements the record-sharing workflow.
type ShareService struct {
	shares     ports.ShareRepository
	identities ports.IdentityRepository
	guard      ports.ShareGuard
	audit      ports.AuditSink
	logger     zerolog.Logger
}

func NewShareService(shares ports.ShareRepository, identities ports.IdentityRepository, guard ports.ShareGuard, audit ports.AuditSink, logger zerolog.Logger) *ShareService {
	return &ShareService{shares: shares, identities: identities, guard: guard, audit: audit, logger: logger}
}

// Recipients lists all doctors, hospitals, and loan providers a patient can
// address.
func (s *ShareService) Recipients(ctx context.Context) (*ports.RecipientsResult, error) {
	doctors, err := s.identities.ListByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.identities.ListByRole(ctx, domain.RoleHospital)
	if err != nil {
		return nil, err
	}
	providers, err := s.identities.ListByRole(ctx, domain.RoleLoanProvider)
	if err != nil {
		return nil, err
	}

	result := &ports.RecipientsResult{}
	for _, d := range doctors {
		result.Doctors = append(result.Doctors, ports.Recipient{
			ID:             d.RoleID,
			Name:           strings.TrimSpace(d.FirstName + " " + d.LastName),
			Specialization: d.Specialization,
		})
	}
	for _, h := range hospitals {
		result.Hospitals = append(result.Hospitals, ports.Recipient{ID: h.RoleID, Name: h.Name})
	}
	for _, p := range providers {
		result.LoanProviders = append(result.LoanProviders, ports.Recipient{ID: p.RoleID, Name: p.Name})
	}
	return result, nil
}

// Share releases the patient's health snapshot to a practitioner and their
// organisation. The patient must have a completed profile, and the same
// submission cannot be repeated inside the guard window.
func (s *ShareService) Share(ctx context.Context, input ports.ShareInput) (*domain.SharedProfile, error) {
	patient, err := s.identities.FindByRoleAndEmail(ctx, domain.RolePatient, input.PatientEmail)
	if err != nil {
		return nil, err
	}
	if !patient.ProfileCompleted {
		return nil, domain.ErrProfileIncomplete
	}

	dup, err := s.guard.IsDuplicate(ctx, input.PatientEmail, input.PractitionerID, input.OrganizationID)
	if err != nil {
		// Guard outage must not block sharing; log and continue.
		s.logger.Warn().Err(err).Msg("share guard unavailable")
	} else if dup {
		metrics.ShareDuplicateChecks.WithLabelValues("hit").Inc()
		return nil, domain.ErrDuplicateShare
	} else {
		metrics.ShareDuplicateChecks.WithLabelValues("miss").Inc()
	}

	share := &domain.SharedProfile{
		SharedID:       uuid.NewString(),
		PatientEmail:   patient.Email,
		PatientName:    strings.TrimSpace(patient.FirstName + " " + patient.LastName),
		PractitionerID: input.PractitionerID,
		OrganizationID: input.OrganizationID,
		BloodGroup:     input.BloodGroup,
		Allergies:      input.Allergies,
		IllnessReason:  input.IllnessReason,
		SharedAt:       time.Now().UTC(),
	}

	if err := s.shares.Insert(ctx, share); err != nil {
		s.logger.Error().Err(err).Msg("failed to store shared profile")
		return nil, err
	}

	if err := s.guard.Mark(ctx, input.PatientEmail, input.PractitionerID, input.OrganizationID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to mark share guard")
	}

	metrics.SharesCreatedTotal.Inc()
	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditProfileShared,
		SubjectEmail: patient.Email,
		ActorEmail:   patient.Email,
		ActorRole:    domain.RolePatient,
		Detail: map[string]string{
			"shared_id":       share.SharedID,
			"practitioner_id": share.PractitionerID,
			"organization_id": share.OrganizationID,
		},
	})
	s.logger.Info().Str("shared_id", share.SharedID).Str("practitioner_id", share.PractitionerID).Msg("profile shared")

	return share, nil
}

// List returns the shares visible to the caller's role.
func (s *ShareService) List(ctx context.Context, role, email string) ([]*domain.SharedProfile, error) {
	switch role {
	case domain.RolePatient:
		return s.shares.ListByPatient(ctx, email)
	case domain.RoleDoctor:
		profile, err := s.identities.FindByRoleAndEmail(ctx, role, email)
		if err != nil {
			return nil, err
		}
		return s.shares.ListByPractitioner(ctx, profile.RoleID)
	case domain.RoleHospital:
		profile, err := s.identities.FindByRoleAndEmail(ctx, role, email)
		if err != nil {
			return nil, err
		}
		return s.shares.ListByOrganization(ctx, profile.RoleID)
	default:
		return nil, domain.ErrForbidden
	}
}

// FHIRDocument returns the FHIR Patient resource behind a share. Visibility
// follows the same rules as List: the owning patient, the addressed
// practitioner, or the addressed organisation.
func (s *ShareService) FHIRDocument(ctx context.Context, role, email, sharedID string) (*domain.FHIRPatient, error) {
	share, err := s.shares.FindBySharedID(ctx, sharedID)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RolePatient:
		if share.PatientEmail != email {
			return nil, domain.ErrForbidden
		}
	case domain.RoleDoctor:
		profile, err := s.identities.FindByRoleAndEmail(ctx, role, email)
		if err != nil {
			return nil, err
		}
		if share.PractitionerID != profile.RoleID {
			return nil, domain.ErrForbidden
		}
	case domain.RoleHospital:
		profile, err := s.identities.FindByRoleAndEmail(ctx, role, email)
		if err != nil {
			return nil, err
		}
		if share.OrganizationID != profile.RoleID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}

	patient, err := s.identities.FindByRoleAndEmail(ctx, domain.RolePatient, share.PatientEmail)
	if err != nil {
		return nil, err
	}
	return domain.BuildFHIRPatient(patient), nil
}

// Revoke deletes a share owned by the given patient.
func (s *ShareService) Revoke(ctx context.Context, patientEmail, sharedID string) error {
	share, err := s.shares.FindBySharedID(ctx, sharedID)
	if err != nil {
		return err
	}
	if share.PatientEmail != patientEmail {
		return domain.ErrForbidden
	}

	if err := s.shares.Delete(ctx, sharedID); err != nil {
		return err
	}

	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditShareRevoked,
		SubjectEmail: patientEmail,
		ActorEmail:   patientEmail,
		ActorRole:    domain.RolePatient,
		Detail:       map[string]string{"shared_id": sharedID},
	})
	return nil
}
