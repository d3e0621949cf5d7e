package domain

import "time"

const (
	RolePatient      = "patient"
	RoleDoctor       = "doctor"
	RoleHospital     = "hospital"
	RoleLoanProvider = "loan_provider"
)

// ValidRole reports whether role is one of the four recognised account roles.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleHospital, RoleLoanProvider:
		return true
	}
	return false
}

// Identity is the authenticated actor held by a session. Email and Role are
// set at registration and never change; everything else is profile data and
// may be merged in via ProfileUpdate.
type Identity struct {
	Email            string         `json:"email"`
	Role             string         `json:"role"`
	FirstName        string         `json:"first_name,omitempty"`
	LastName         string         `json:"last_name,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	DateOfBirth      string         `json:"date_of_birth,omitempty"`
	Address          string         `json:"address,omitempty"`
	ProfileCompleted bool           `json:"profile_completed"`
	// Extra carries profile fields the core does not interpret.
	Extra map[string]string `json:"extra,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ProfileUpdate is a partial identity. Nil fields are left untouched by the
// merge; Extra entries are merged key by key. Email and Role are deliberately
// absent — they are immutable after registration.
type ProfileUpdate struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	DateOfBirth      *string
	Address          *string
	ProfileCompleted *bool
	Extra            map[string]string
}

// Merge applies the update to a copy of id and returns it. Only fields set on
// the update change; Email and Role always carry over from the receiver.
func (id Identity) Merge(u ProfileUpdate) Identity {
	out := id
	if u.FirstName != nil {
		out.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		out.LastName = *u.LastName
	}
	if u.Phone != nil {
		out.Phone = *u.Phone
	}
	if u.DateOfBirth != nil {
		out.DateOfBirth = *u.DateOfBirth
	}
	if u.Address != nil {
		out.Address = *u.Address
	}
	if u.ProfileCompleted != nil {
		out.ProfileCompleted = *u.ProfileCompleted
	}
	if len(u.Extra) > 0 {
		merged := make(map[string]string, len(id.Extra)+len(u.Extra))
		for k, v := range id.Extra {
			merged[k] = v
		}
		for k, v := range u.Extra {
			merged[k] = v
		}
		out.Extra = merged
	}
	return out
}
