package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// ProfileService reads and updates role-scoped profiles and maintains the
// FHIR projection of patient accounts.
type ProfileService struct {
	repo   ports.IdentityRepository
	fhir   ports.FHIRRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewProfileService(repo ports.IdentityRepository, fhir ports.FHIRRepository, audit ports.AuditSink, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, fhir: fhir, audit: audit, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, role, email string) (*domain.AccountProfile, error) {
	return s.repo.FindByRoleAndEmail(ctx, role, email)
}

// Update shallow-merges the given fields into the stored profile. A patient
// profile that gains first name, last name, phone, and date of birth is
// marked completed, which unlocks the share workflow. Patient updates also
// refresh the stored FHIR projection.
func (s *ProfileService) Update(ctx context.Context, role, email string, update domain.ProfileUpdate) (*domain.AccountProfile, error) {
	profile, err := s.repo.UpdateProfile(ctx, role, email, update)
	if err != nil {
		return nil, err
	}

	if role == domain.RolePatient && !profile.ProfileCompleted && profileComplete(profile) {
		completed := true
		profile, err = s.repo.UpdateProfile(ctx, role, email, domain.ProfileUpdate{ProfileCompleted: &completed})
		if err != nil {
			return nil, err
		}
	}

	if role == domain.RolePatient {
		// The projection is derived data; a failing write never blocks the
		// profile update itself.
		if err := s.fhir.Upsert(ctx, email, domain.BuildFHIRPatient(profile)); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("failed to refresh fhir projection")
		}
	}

	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditProfileUpdated,
		SubjectEmail: email,
		ActorEmail:   email,
		ActorRole:    role,
	})
	s.logger.Info().Str("role", role).Bool("profile_completed", profile.ProfileCompleted).Msg("profile updated")

	return profile, nil
}

// FHIR returns the patient's FHIR Patient document. Accounts that predate
// the projection get one built from the live profile and stored on first
// read.
func (s *ProfileService) FHIR(ctx context.Context, email string) (*domain.FHIRPatient, error) {
	doc, err := s.fhir.FindByPatientEmail(ctx, email)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	profile, err := s.repo.FindByRoleAndEmail(ctx, domain.RolePatient, email)
	if err != nil {
		return nil, err
	}
	doc = domain.BuildFHIRPatient(profile)
	if err := s.fhir.Upsert(ctx, email, doc); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to backfill fhir projection")
	}
	return doc, nil
}

func profileComplete(p *domain.AccountProfile) bool {
	return p.FirstName != "" && p.LastName != "" && p.Phone != "" && p.DateOfBirth != ""
}
