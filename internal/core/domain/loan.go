package domain

import "time"

// LoanStatus represents the lifecycle state of a medical loan request.
type LoanStatus string

const (
	LoanPending  LoanStatus = "Pending"
	LoanApproved LoanStatus = "Approved"
	LoanRejected LoanStatus = "Rejected"
	// Terminal states entered by the patient responding to an approved plan.
	LoanAccepted LoanStatus = "Accepted"
	LoanDeclined LoanStatus = "Declined"
)

// validLoanTransitions defines the allowed state machine transitions.
// The provider moves Pending forward; only the patient leaves Approved.
var validLoanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:  {LoanApproved, LoanRejected},
	LoanApproved: {LoanAccepted, LoanDeclined},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range validLoanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RiskBand buckets a computed risk score.
type RiskBand string

const (
	RiskLow    RiskBand = "Low"
	RiskMedium RiskBand = "Medium"
	RiskHigh   RiskBand = "High"
)

// LoanRequest is the medical-loan aggregate root.
type LoanRequest struct {
	LoanID         string `json:"loan_id" bson:"loan_id"`
	PatientEmail   string `json:"patient_email" bson:"patient_email"`
	PatientName    string `json:"patient_name" bson:"patient_name"`
	LoanProviderID string `json:"loan_provider_id" bson:"loan_provider_id"`

	RequiredAmount int64  `json:"required_amount" bson:"required_amount"`
	ApprovedAmount *int64 `json:"approved_amount,omitempty" bson:"approved_amount,omitempty"`

	Risk      RiskBand `json:"risk" bson:"risk"`
	RiskScore int      `json:"risk_score" bson:"risk_score"`

	Status LoanStatus `json:"status" bson:"status"`

	LoanPurpose      string `json:"loan_purpose" bson:"loan_purpose"`
	MedicalReason    string `json:"medical_reason" bson:"medical_reason"`
	TreatmentType    string `json:"treatment_type" bson:"treatment_type"`
	PreferredTenure  int    `json:"preferred_tenure" bson:"preferred_tenure"`
	MonthlyIncome    int64  `json:"monthly_income" bson:"monthly_income"`
	HasInsurance     bool   `json:"has_insurance" bson:"has_insurance"`
	HasExistingLoans bool   `json:"has_existing_loans" bson:"has_existing_loans"`

	HospitalName     string `json:"hospital_name" bson:"hospital_name"`
	HospitalLocation string `json:"hospital_location" bson:"hospital_location"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
