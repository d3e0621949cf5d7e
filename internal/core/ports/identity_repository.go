package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// IdentityRepository persists role-scoped account profiles.
type IdentityRepository interface {
	// Create inserts the profile into its role's collection.
	// Returns domain.ErrUserExists when the email is already registered in
	// any role collection.
	Create(ctx context.Context, profile *domain.AccountProfile) error

	// FindByEmail looks the email up across all role collections.
	FindByEmail(ctx context.Context, email string) (*domain.AccountProfile, error)

	// FindByRoleAndEmail reads from a single role collection.
	FindByRoleAndEmail(ctx context.Context, role, email string) (*domain.AccountProfile, error)

	// FindOrganization resolves a hospital by its organisation ID.
	FindOrganization(ctx context.Context, organizationID string) (*domain.AccountProfile, error)

	// FindProviderByID resolves a loan provider by its LOANP-… ID.
	FindProviderByID(ctx context.Context, loanProviderID string) (*domain.AccountProfile, error)

	// ListByRole returns every profile in a role's collection, sans password
	// hashes, for recipient pickers.
	ListByRole(ctx context.Context, role string) ([]*domain.AccountProfile, error)

	// UpdateProfile shallow-merges the update into the stored profile and
	// returns the merged document. Email and role are never modified.
	UpdateProfile(ctx context.Context, role, email string, update domain.ProfileUpdate) (*domain.AccountProfile, error)
}
