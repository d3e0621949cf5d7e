package handler

import "github.com/carelink/health-exchange/internal/core/domain"

// profileResponse is the account document minus credentials.
type profileResponse struct {
	Email            string            `json:"email"`
	Role             string            `json:"role"`
	RoleID           string            `json:"role_id"`
	FirstName        string            `json:"first_name,omitempty"`
	LastName         string            `json:"last_name,omitempty"`
	Name             string            `json:"name,omitempty"`
	Specialization   string            `json:"specialization,omitempty"`
	OrganizationID   string            `json:"organization_id,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	DateOfBirth      string            `json:"date_of_birth,omitempty"`
	Address          string            `json:"address,omitempty"`
	ProfileCompleted bool              `json:"profile_completed"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// updateProfileRequest is a partial update. Absent fields are left untouched;
// email and role cannot be changed.
type updateProfileRequest struct {
	FirstName   *string           `json:"first_name,omitempty"`
	LastName    *string           `json:"last_name,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	DateOfBirth *string           `json:"date_of_birth,omitempty" validate:"omitempty,dateonly"`
	Address     *string           `json:"address,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

func (r updateProfileRequest) toUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		Address:     r.Address,
		Extra:       r.Extra,
	}
}

func toProfileResponse(p *domain.AccountProfile) profileResponse {
	return profileResponse{
		Email:            p.Email,
		Role:             p.Role,
		RoleID:           p.RoleID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Name:             p.Name,
		Specialization:   p.Specialization,
		OrganizationID:   p.OrganizationID,
		Phone:            p.Phone,
		DateOfBirth:      p.DateOfBirth,
		Address:          p.Address,
		ProfileCompleted: p.ProfileCompleted,
		Extra:            p.Extra,
	}
}

func toIdentityResponse(id domain.Identity) identityResponse {
	return identityResponse{
		Email:            id.Email,
		Role:             id.Role,
		FirstName:        id.FirstName,
		LastName:         id.LastName,
		Phone:            id.Phone,
		DateOfBirth:      id.DateOfBirth,
		Address:          id.Address,
		ProfileCompleted: id.ProfileCompleted,
		Extra:            id.Extra,
	}
}
