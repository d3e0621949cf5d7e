package service

import (
	"context"
	"sync"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

// stubIdentityRepo keys profiles by role then email, mirroring the role-scoped
// collections.
type stubIdentityRepo struct {
	profiles map[string]map[string]*domain.AccountProfile
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{profiles: make(map[string]map[string]*domain.AccountProfile)}
}

func cloneProfile(p *domain.AccountProfile) *domain.AccountProfile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Extra != nil {
		clone.Extra = make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			clone.Extra[k] = v
		}
	}
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, profile *domain.AccountProfile) error {
	for _, byEmail := range r.profiles {
		if _, exists := byEmail[profile.Email]; exists {
			return domain.ErrUserExists
		}
	}
	if r.profiles[profile.Role] == nil {
		r.profiles[profile.Role] = make(map[string]*domain.AccountProfile)
	}
	r.profiles[profile.Role][profile.Email] = cloneProfile(profile)
	return nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.AccountProfile, error) {
	for _, byEmail := range r.profiles {
		if p, ok := byEmail[email]; ok {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubIdentityRepo) FindByRoleAndEmail(_ context.Context, role, email string) (*domain.AccountProfile, error) {
	if p, ok := r.profiles[role][email]; ok {
		return cloneProfile(p), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubIdentityRepo) FindOrganization(_ context.Context, organizationID string) (*domain.AccountProfile, error) {
	for _, p := range r.profiles[domain.RoleHospital] {
		if p.RoleID == organizationID {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrUnknownOrganisation
}

func (r *stubIdentityRepo) FindProviderByID(_ context.Context, loanProviderID string) (*domain.AccountProfile, error) {
	for _, p := range r.profiles[domain.RoleLoanProvider] {
		if p.RoleID == loanProviderID {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubIdentityRepo) ListByRole(_ context.Context, role string) ([]*domain.AccountProfile, error) {
	var out []*domain.AccountProfile
	for _, p := range r.profiles[role] {
		clone := cloneProfile(p)
		clone.PasswordHash = ""
		out = append(out, clone)
	}
	return out, nil
}

func (r *stubIdentityRepo) UpdateProfile(_ context.Context, role, email string, update domain.ProfileUpdate) (*domain.AccountProfile, error) {
	p, ok := r.profiles[role][email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.FirstName != nil {
		p.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		p.LastName = *update.LastName
	}
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	if update.DateOfBirth != nil {
		p.DateOfBirth = *update.DateOfBirth
	}
	if update.Address != nil {
		p.Address = *update.Address
	}
	if update.ProfileCompleted != nil {
		p.ProfileCompleted = *update.ProfileCompleted
	}
	if len(update.Extra) > 0 {
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		for k, v := range update.Extra {
			p.Extra[k] = v
		}
	}
	return cloneProfile(p), nil
}

// stubShareRepo stores shares in a slice.
type stubShareRepo struct {
	shares []*domain.SharedProfile
}

func (r *stubShareRepo) Insert(_ context.Context, share *domain.SharedProfile) error {
	clone := *share
	r.shares = append(r.shares, &clone)
	return nil
}

func (r *stubShareRepo) FindBySharedID(_ context.Context, sharedID string) (*domain.SharedProfile, error) {
	for _, s := range r.shares {
		if s.SharedID == sharedID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrShareNotFound
}

func (r *stubShareRepo) ListByPatient(_ context.Context, patientEmail string) ([]*domain.SharedProfile, error) {
	var out []*domain.SharedProfile
	for _, s := range r.shares {
		if s.PatientEmail == patientEmail {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubShareRepo) ListByPractitioner(_ context.Context, practitionerID string) ([]*domain.SharedProfile, error) {
	var out []*domain.SharedProfile
	for _, s := range r.shares {
		if s.PractitionerID == practitionerID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubShareRepo) ListByOrganization(_ context.Context, organizationID string) ([]*domain.SharedProfile, error) {
	var out []*domain.SharedProfile
	for _, s := range r.shares {
		if s.OrganizationID == organizationID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubShareRepo) Delete(_ context.Context, sharedID string) error {
	for i, s := range r.shares {
		if s.SharedID == sharedID {
			r.shares = append(r.shares[:i], r.shares[i+1:]...)
			return nil
		}
	}
	return domain.ErrShareNotFound
}

// stubFHIRRepo stores FHIR projections in a map by patient email.
type stubFHIRRepo struct {
	docs map[string]*domain.FHIRPatient
	fail bool
}

func newStubFHIRRepo() *stubFHIRRepo {
	return &stubFHIRRepo{docs: make(map[string]*domain.FHIRPatient)}
}

func (r *stubFHIRRepo) Upsert(_ context.Context, patientEmail string, resource *domain.FHIRPatient) error {
	if r.fail {
		return context.DeadlineExceeded
	}
	clone := *resource
	r.docs[patientEmail] = &clone
	return nil
}

func (r *stubFHIRRepo) FindByPatientEmail(_ context.Context, patientEmail string) (*domain.FHIRPatient, error) {
	if r.fail {
		return nil, context.DeadlineExceeded
	}
	doc, ok := r.docs[patientEmail]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *doc
	return &clone, nil
}

// stubGuard marks pairs in memory; fail makes every call error.
type stubGuard struct {
	marked map[string]bool
	fail   bool
}

func newStubGuard() *stubGuard {
	return &stubGuard{marked: make(map[string]bool)}
}

func guardKey(email, practitionerID, organizationID string) string {
	return email + "|" + practitionerID + "|" + organizationID
}

func (g *stubGuard) IsDuplicate(_ context.Context, email, practitionerID, organizationID string) (bool, error) {
	if g.fail {
		return false, context.DeadlineExceeded
	}
	return g.marked[guardKey(email, practitionerID, organizationID)], nil
}

func (g *stubGuard) Mark(_ context.Context, email, practitionerID, organizationID string) error {
	if g.fail {
		return context.DeadlineExceeded
	}
	g.marked[guardKey(email, practitionerID, organizationID)] = true
	return nil
}

// stubLoanRepo stores loans in a map by loan ID.
type stubLoanRepo struct {
	loans map[string]*domain.LoanRequest
}

func newStubLoanRepo() *stubLoanRepo {
	return &stubLoanRepo{loans: make(map[string]*domain.LoanRequest)}
}

func (r *stubLoanRepo) Insert(_ context.Context, loan *domain.LoanRequest) error {
	clone := *loan
	r.loans[loan.LoanID] = &clone
	return nil
}

func (r *stubLoanRepo) FindByLoanID(_ context.Context, loanID string) (*domain.LoanRequest, error) {
	if l, ok := r.loans[loanID]; ok {
		clone := *l
		return &clone, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (r *stubLoanRepo) ListByPatient(_ context.Context, patientEmail string) ([]*domain.LoanRequest, error) {
	var out []*domain.LoanRequest
	for _, l := range r.loans {
		if l.PatientEmail == patientEmail {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubLoanRepo) ListByProvider(_ context.Context, loanProviderID string, filter ports.LoanListFilter) ([]*domain.LoanRequest, error) {
	var out []*domain.LoanRequest
	for _, l := range r.loans {
		if l.LoanProviderID != loanProviderID {
			continue
		}
		if filter.Status != "" && string(l.Status) != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && l.CreatedAt.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && l.CreatedAt.After(filter.DateTo) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubLoanRepo) UpdateStatus(_ context.Context, loanID string, status domain.LoanStatus, approvedAmount *int64) error {
	l, ok := r.loans[loanID]
	if !ok {
		return domain.ErrLoanNotFound
	}
	l.Status = status
	if approvedAmount != nil {
		l.ApprovedAmount = approvedAmount
	}
	return nil
}

// recordingAudit collects emitted events for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Emit(event domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAudit) types() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}
