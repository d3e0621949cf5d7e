package domain

import "time"

// Audit event kinds recorded on record-exchange and loan activity.
const (
	AuditProfileUpdated    = "profile_updated"
	AuditProfileShared     = "profile_shared"
	AuditShareRevoked      = "share_revoked"
	AuditLoanApplied       = "loan_applied"
	AuditLoanStatusChanged = "loan_status_changed"
	AuditLoanResponse      = "loan_response"
)

// AuditEvent is an append-only record of who did what to whose data.
// SubjectEmail is the account the event is about, which is not always the
// actor (a provider approving a loan acts on the patient's record).
type AuditEvent struct {
	Type         string            `json:"type" bson:"type"`
	SubjectEmail string            `json:"subject_email" bson:"subject_email"`
	ActorEmail   string            `json:"actor_email" bson:"actor_email"`
	ActorRole    string            `json:"actor_role" bson:"actor_role"`
	Detail       map[string]string `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp    time.Time         `json:"timestamp" bson:"timestamp"`
}
