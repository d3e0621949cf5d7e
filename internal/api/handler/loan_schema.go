package handler

import (
	"time"

	"github.com/carelink/health-exchange/internal/core/domain"
)

type applyLoanRequest struct {
	LoanProviderID string `json:"loan_provider_id" validate:"required"`

	RequiredAmount   int64  `json:"required_amount"  validate:"required,gt=0"`
	LoanPurpose      string `json:"loan_purpose"     validate:"required"`
	MedicalReason    string `json:"medical_reason"   validate:"required"`
	TreatmentType    string `json:"treatment_type"`
	PreferredTenure  int    `json:"preferred_tenure" validate:"required,gt=0"`
	MonthlyIncome    int64  `json:"monthly_income"   validate:"required,gt=0"`
	HasInsurance     bool   `json:"has_insurance"`
	HasExistingLoans bool   `json:"has_existing_loans"`

	HospitalName     string `json:"hospital_name"`
	HospitalLocation string `json:"hospital_location"`
}

type updateLoanStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=Approved Rejected"`
	ApprovedAmount int64  `json:"approved_amount"`
}

type respondToLoanRequest struct {
	Accept bool `json:"accept"`
}

type loanResponse struct {
	LoanID         string `json:"loan_id"`
	PatientEmail   string `json:"patient_email"`
	PatientName    string `json:"patient_name"`
	LoanProviderID string `json:"loan_provider_id"`

	RequiredAmount int64  `json:"required_amount"`
	ApprovedAmount *int64 `json:"approved_amount,omitempty"`

	Risk      string `json:"risk"`
	RiskScore int    `json:"risk_score"`
	Status    string `json:"status"`

	LoanPurpose      string `json:"loan_purpose"`
	MedicalReason    string `json:"medical_reason"`
	TreatmentType    string `json:"treatment_type,omitempty"`
	PreferredTenure  int    `json:"preferred_tenure"`
	MonthlyIncome    int64  `json:"monthly_income"`
	HasInsurance     bool   `json:"has_insurance"`
	HasExistingLoans bool   `json:"has_existing_loans"`

	HospitalName     string `json:"hospital_name,omitempty"`
	HospitalLocation string `json:"hospital_location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLoanResponse(l *domain.LoanRequest) loanResponse {
	return loanResponse{
		LoanID:           l.LoanID,
		PatientEmail:     l.PatientEmail,
		PatientName:      l.PatientName,
		LoanProviderID:   l.LoanProviderID,
		RequiredAmount:   l.RequiredAmount,
		ApprovedAmount:   l.ApprovedAmount,
		Risk:             string(l.Risk),
		RiskScore:        l.RiskScore,
		Status:           string(l.Status),
		LoanPurpose:      l.LoanPurpose,
		MedicalReason:    l.MedicalReason,
		TreatmentType:    l.TreatmentType,
		PreferredTenure:  l.PreferredTenure,
		MonthlyIncome:    l.MonthlyIncome,
		HasInsurance:     l.HasInsurance,
		HasExistingLoans: l.HasExistingLoans,
		HospitalName:     l.HospitalName,
		HospitalLocation: l.HospitalLocation,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toLoanList(loans []*domain.LoanRequest) []loanResponse {
	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l))
	}
	return out
}
