package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/api/metrics"
	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// LoanService implements the medical-loan workflow.
type LoanService struct {
	loans      ports.LoanRepository
	identities ports.IdentityRepository
	audit      ports.AuditSink
	logger     zerolog.Logger
}

func NewLoanService(loans ports.LoanRepository, identities ports.IdentityRepository, audit ports.AuditSink, logger zerolog.Logger) *LoanService {
	return &LoanService{loans: loans, identities: identities, audit: audit, logger: logger}
}

// Apply scores the application and stores it as Pending with the addressed
// provider.
func (s *LoanService) Apply(ctx context.Context, input ports.ApplyLoanInput) (*domain.LoanRequest, error) {
	patient, err := s.identities.FindByRoleAndEmail(ctx, domain.RolePatient, input.PatientEmail)
	if err != nil {
		return nil, err
	}
	if _, err := s.identities.FindProviderByID(ctx, input.LoanProviderID); err != nil {
		return nil, err
	}

	score := riskScore(input)
	now := time.Now().UTC()
	loan := &domain.LoanRequest{
		LoanID:         generateLoanID(),
		PatientEmail:   patient.Email,
		PatientName:    strings.TrimSpace(patient.FirstName + " " + patient.LastName),
		LoanProviderID: input.LoanProviderID,

		RequiredAmount: input.RequiredAmount,
		Risk:           riskBand(score),
		RiskScore:      score,
		Status:         domain.LoanPending,

		LoanPurpose:      input.LoanPurpose,
		MedicalReason:    input.MedicalReason,
		TreatmentType:    input.TreatmentType,
		PreferredTenure:  input.PreferredTenure,
		MonthlyIncome:    input.MonthlyIncome,
		HasInsurance:     input.HasInsurance,
		HasExistingLoans: input.HasExistingLoans,

		HospitalName:     input.HospitalName,
		HospitalLocation: input.HospitalLocation,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.loans.Insert(ctx, loan); err != nil {
		s.logger.Error().Err(err).Msg("failed to store loan request")
		return nil, err
	}

	metrics.LoansCreatedTotal.WithLabelValues(string(loan.Risk)).Inc()
	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditLoanApplied,
		SubjectEmail: patient.Email,
		ActorEmail:   patient.Email,
		ActorRole:    domain.RolePatient,
		Detail: map[string]string{
			"loan_id": loan.LoanID,
			"risk":    string(loan.Risk),
		},
	})
	s.logger.Info().Str("loan_id", loan.LoanID).Str("risk", string(loan.Risk)).Int("risk_score", score).Msg("loan application received")

	return loan, nil
}

func (s *LoanService) ListForPatient(ctx context.Context, patientEmail string) ([]*domain.LoanRequest, error) {
	return s.loans.ListByPatient(ctx, patientEmail)
}

func (s *LoanService) ListForProvider(ctx context.Context, providerEmail string, filter ports.LoanListFilter) ([]*domain.LoanRequest, error) {
	provider, err := s.identities.FindByRoleAndEmail(ctx, domain.RoleLoanProvider, providerEmail)
	if err != nil {
		return nil, err
	}
	return s.loans.ListByProvider(ctx, provider.RoleID, filter)
}

// UpdateStatus applies a provider decision. Only Pending requests addressed
// to the calling provider can move, and only to Approved or Rejected.
func (s *LoanService) UpdateStatus(ctx context.Context, input ports.UpdateLoanStatusInput) (*domain.LoanRequest, error) {
	provider, err := s.identities.FindByRoleAndEmail(ctx, domain.RoleLoanProvider, input.ProviderEmail)
	if err != nil {
		return nil, err
	}

	loan, err := s.loans.FindByLoanID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.LoanProviderID != provider.RoleID {
		return nil, domain.ErrForbidden
	}
	if input.Status != domain.LoanApproved && input.Status != domain.LoanRejected {
		return nil, domain.ErrInvalidTransition
	}
	if !loan.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidTransition
	}

	var approved *int64
	if input.Status == domain.LoanApproved {
		if input.ApprovedAmount <= 0 {
			return nil, domain.ErrInvalidTransition
		}
		amount := input.ApprovedAmount
		approved = &amount
	}

	if err := s.loans.UpdateStatus(ctx, loan.LoanID, input.Status, approved); err != nil {
		return nil, err
	}
	loan.Status = input.Status
	loan.ApprovedAmount = approved
	loan.UpdatedAt = time.Now().UTC()

	metrics.LoanStatusChangesTotal.WithLabelValues(string(input.Status)).Inc()
	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditLoanStatusChanged,
		SubjectEmail: loan.PatientEmail,
		ActorEmail:   input.ProviderEmail,
		ActorRole:    domain.RoleLoanProvider,
		Detail: map[string]string{
			"loan_id": loan.LoanID,
			"status":  string(input.Status),
		},
	})
	s.logger.Info().Str("loan_id", loan.LoanID).Str("status", string(input.Status)).Msg("loan status updated")

	return loan, nil
}

// Respond records the patient accepting or declining an approved plan.
func (s *LoanService) Respond(ctx context.Context, input ports.RespondToLoanInput) (*domain.LoanRequest, error) {
	loan, err := s.loans.FindByLoanID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.PatientEmail != input.PatientEmail {
		return nil, domain.ErrForbidden
	}

	next := domain.LoanDeclined
	if input.Accept {
		next = domain.LoanAccepted
	}
	if !loan.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.loans.UpdateStatus(ctx, loan.LoanID, next, nil); err != nil {
		return nil, err
	}
	loan.Status = next
	loan.UpdatedAt = time.Now().UTC()

	metrics.LoanStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.audit.Emit(domain.AuditEvent{
		Type:         domain.AuditLoanResponse,
		SubjectEmail: input.PatientEmail,
		ActorEmail:   input.PatientEmail,
		ActorRole:    domain.RolePatient,
		Detail: map[string]string{
			"loan_id": loan.LoanID,
			"status":  string(next),
		},
	})

	return loan, nil
}

// Analytics aggregates the provider's request queue for the dashboard.
func (s *LoanService) Analytics(ctx context.Context, providerEmail string) (*ports.LoanAnalytics, error) {
	loans, err := s.ListForProvider(ctx, providerEmail, ports.LoanListFilter{})
	if err != nil {
		return nil, err
	}

	out := &ports.LoanAnalytics{TotalRequests: len(loans)}
	for _, l := range loans {
		switch l.Status {
		case domain.LoanPending:
			out.Pending++
		case domain.LoanApproved, domain.LoanAccepted, domain.LoanDeclined:
			out.Approved++
			if l.ApprovedAmount != nil {
				out.TotalApprovedAmount += *l.ApprovedAmount
			}
		case domain.LoanRejected:
			out.Rejected++
		}
		switch l.Risk {
		case domain.RiskLow:
			out.RiskDist.Low++
		case domain.RiskMedium:
			out.RiskDist.Medium++
		case domain.RiskHigh:
			out.RiskDist.High++
		}
	}
	return out, nil
}

// riskScore computes a 0-100 score from affordability signals: how many
// months of income the requested amount represents, tenure length, and
// existing commitments. Higher is riskier.
func riskScore(in ports.ApplyLoanInput) int {
	score := 0

	if in.MonthlyIncome <= 0 {
		score += 50
	} else {
		months := in.RequiredAmount / in.MonthlyIncome
		switch {
		case months >= 24:
			score += 50
		case months >= 12:
			score += 35
		case months >= 6:
			score += 20
		default:
			score += 10
		}
	}

	if in.PreferredTenure > 36 {
		score += 15
	} else if in.PreferredTenure > 12 {
		score += 5
	}

	if in.HasExistingLoans {
		score += 20
	}
	if !in.HasInsurance {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func riskBand(score int) domain.RiskBand {
	switch {
	case score < 40:
		return domain.RiskLow
	case score < 70:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}
