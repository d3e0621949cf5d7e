package ports

import (
	"context"
	"time"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// LoanListFilter carries the query parameters for a provider's request queue.
type LoanListFilter struct {
	Status   string    // optional: filter by loan status
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
}

// LoanRepository persists loan requests.
type LoanRepository interface {
	Insert(ctx context.Context, loan *domain.LoanRequest) error
	FindByLoanID(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	ListByPatient(ctx context.Context, patientEmail string) ([]*domain.LoanRequest, error)
	ListByProvider(ctx context.Context, loanProviderID string, filter LoanListFilter) ([]*domain.LoanRequest, error)
	// UpdateStatus atomically sets the new status (and, when non-nil, the
	// approved amount) and bumps updated_at.
	UpdateStatus(ctx context.Context, loanID string, status domain.LoanStatus, approvedAmount *int64) error
}

// ApplyLoanInput carries a patient's loan application.
type ApplyLoanInput struct {
	PatientEmail   string
	LoanProviderID string

	RequiredAmount   int64
	LoanPurpose      string
	MedicalReason    string
	TreatmentType    string
	PreferredTenure  int
	MonthlyIncome    int64
	HasInsurance     bool
	HasExistingLoans bool

	HospitalName     string
	HospitalLocation string
}

// UpdateLoanStatusInput is a provider's decision on a pending request.
type UpdateLoanStatusInput struct {
	ProviderEmail  string
	LoanID         string
	Status         domain.LoanStatus // Approved or Rejected
	ApprovedAmount int64             // required when approving
}

// RespondToLoanInput is a patient's answer to an approved plan.
type RespondToLoanInput struct {
	PatientEmail string
	LoanID       string
	Accept       bool
}

// RiskDistribution counts requests per risk band.
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// LoanAnalytics is the provider dashboard aggregate.
type LoanAnalytics struct {
	TotalRequests       int              `json:"total_requests"`
	Pending             int              `json:"pending"`
	Approved            int              `json:"approved"`
	Rejected            int              `json:"rejected"`
	TotalApprovedAmount int64            `json:"total_approved_amount"`
	RiskDist            RiskDistribution `json:"risk_dist"`
}

// LoanService implements the medical-loan workflow.
type LoanService interface {
	// Apply scores the application and stores it as Pending.
	Apply(ctx context.Context, input ApplyLoanInput) (*domain.LoanRequest, error)
	ListForPatient(ctx context.Context, patientEmail string) ([]*domain.LoanRequest, error)
	// ListForProvider returns the queue for the provider owning the given
	// account email.
	ListForProvider(ctx context.Context, providerEmail string, filter LoanListFilter) ([]*domain.LoanRequest, error)
	// UpdateStatus applies a provider decision; only Pending requests
	// belonging to the calling provider can move.
	UpdateStatus(ctx context.Context, input UpdateLoanStatusInput) (*domain.LoanRequest, error)
	// Respond records the patient accepting or declining an approved plan.
	Respond(ctx context.Context, input RespondToLoanInput) (*domain.LoanRequest, error)
	Analytics(ctx context.Context, providerEmail string) (*LoanAnalytics, error)
}
