package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=patient doctor hospital loan_provider"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// Name is required for hospitals and loan providers.
	Name           string `json:"name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	HospitalID     string `json:"hospital_id,omitempty"`
}

type registerResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
	RoleID  string `json:"role_id"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	Email            string            `json:"email"`
	Role             string            `json:"role"`
	FirstName        string            `json:"first_name,omitempty"`
	LastName         string            `json:"last_name,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	DateOfBirth      string            `json:"date_of_birth,omitempty"`
	Address          string            `json:"address,omitempty"`
	ProfileCompleted bool              `json:"profile_completed"`
	Extra            map[string]string `json:"extra,omitempty"`
}

type loginResponse struct {
	Access    string           `json:"access"`
	Refresh   string           `json:"refresh"`
	SessionID string           `json:"session_id"`
	Landing   string           `json:"landing"`
	User      identityResponse `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
