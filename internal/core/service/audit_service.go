package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// AuditTrailService persists dequeued audit events.
type AuditTrailService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditTrailService(repo ports.AuditRepository, logger zerolog.Logger) *AuditTrailService {
	return &AuditTrailService{repo: repo, logger: logger}
}

func (s *AuditTrailService) Process(ctx context.Context, event domain.AuditEvent) error {
	if event.Type == "" || event.SubjectEmail == "" {
		return fmt.Errorf("audit event missing type or subject")
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	s.logger.Debug().Str("type", event.Type).Str("subject", event.SubjectEmail).Msg("audit event recorded")
	return nil
}
