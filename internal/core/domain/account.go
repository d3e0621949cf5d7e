package domain

import "time"

// AccountProfile is the role-scoped account document. Patients, doctors,
// hospitals, and loan providers live in separate collections but share this
// shape; fields that do not apply to a role stay empty.
type AccountProfile struct {
	Email        string `json:"email" bson:"email"`
	Role         string `json:"role" bson:"role"`
	PasswordHash string `json:"-" bson:"password"`

	FirstName string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" bson:"last_name,omitempty"`
	// Name is the display name for organisations and loan providers.
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	Specialization string `json:"specialization,omitempty" bson:"specialization,omitempty"`

	// RoleID is the generated role-scoped identifier: PAT-…, DR-…, HOSP-…,
	// or LOANP-….
	RoleID string `json:"role_id" bson:"role_id"`
	// OrganizationID is the employing hospital for doctors.
	OrganizationID string `json:"organization_id,omitempty" bson:"organization_id,omitempty"`

	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`

	ProfileCompleted bool              `json:"profile_completed" bson:"profile_completed"`
	Extra            map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Identity projects the account into the session identity record.
func (p *AccountProfile) Identity() Identity {
	return Identity{
		Email:            p.Email,
		Role:             p.Role,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		DateOfBirth:      p.DateOfBirth,
		Address:          p.Address,
		ProfileCompleted: p.ProfileCompleted,
		Extra:            p.Extra,
		CreatedAt:        p.CreatedAt,
	}
}
