package domain

import "time"

// SharedProfile is a patient's health snapshot released to a practitioner and
// their organisation. The patient owns the record and may revoke it.
type SharedProfile struct {
	SharedID       string    `json:"shared_id" bson:"shared_id"`
	PatientEmail   string    `json:"patient_email" bson:"patient_email"`
	PatientName    string    `json:"patient_name" bson:"patient_name"`
	PractitionerID string    `json:"practitioner_id" bson:"practitioner_id"`
	OrganizationID string    `json:"organization_id" bson:"organization_id"`
	BloodGroup     string    `json:"blood_group" bson:"blood_group"`
	Allergies      string    `json:"allergies,omitempty" bson:"allergies,omitempty"`
	IllnessReason  string    `json:"illness_reason" bson:"illness_reason"`
	SharedAt       time.Time `json:"shared_at" bson:"shared_at"`
}
