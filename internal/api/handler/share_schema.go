package handler

import (
	"time"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

type shareRequest struct {
	PractitionerID string `json:"practitioner_id" validate:"required"`
	OrganizationID string `json:"organization_id" validate:"required"`
	BloodGroup     string `json:"blood_group"     validate:"required"`
	Allergies      string `json:"allergies"`
	IllnessReason  string `json:"illness_reason"  validate:"required"`
}

type sharedProfileResponse struct {
	SharedID       string    `json:"shared_id"`
	PatientEmail   string    `json:"patient_email"`
	PatientName    string    `json:"patient_name"`
	PractitionerID string    `json:"practitioner_id"`
	OrganizationID string    `json:"organization_id"`
	BloodGroup     string    `json:"blood_group"`
	Allergies      string    `json:"allergies,omitempty"`
	IllnessReason  string    `json:"illness_reason"`
	SharedAt       time.Time `json:"shared_at"`
}

type recipientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

type recipientsResponse struct {
	Doctors       []recipientResponse `json:"doctors"`
	Hospitals     []recipientResponse `json:"hospitals"`
	LoanProviders []recipientResponse `json:"loan_providers"`
}

func toSharedProfileResponse(s *domain.SharedProfile) sharedProfileResponse {
	return sharedProfileResponse{
		SharedID:       s.SharedID,
		PatientEmail:   s.PatientEmail,
		PatientName:    s.PatientName,
		PractitionerID: s.PractitionerID,
		OrganizationID: s.OrganizationID,
		BloodGroup:     s.BloodGroup,
		Allergies:      s.Allergies,
		IllnessReason:  s.IllnessReason,
		SharedAt:       s.SharedAt,
	}
}

func toSharedProfileList(shares []*domain.SharedProfile) []sharedProfileResponse {
	out := make([]sharedProfileResponse, 0, len(shares))
	for _, s := range shares {
		out = append(out, toSharedProfileResponse(s))
	}
	return out
}

func toRecipientList(rs []ports.Recipient) []recipientResponse {
	out := make([]recipientResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, recipientResponse{ID: r.ID, Name: r.Name, Specialization: r.Specialization})
	}
	return out
}
