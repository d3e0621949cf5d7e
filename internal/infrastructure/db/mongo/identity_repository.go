package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// Role-scoped collections, one per account kind.
const (
	patientsCollection      = "patients"
	practitionersCollection = "practitioners"
	organizationsCollection = "organizations"
	loanProvidersCollection = "loan_providers"
)

var roleCollections = map[string]string{
	domain.RolePatient:      patientsCollection,
	domain.RoleDoctor:       practitionersCollection,
	domain.RoleHospital:     organizationsCollection,
	domain.RoleLoanProvider: loanProvidersCollection,
}

// MongoIdentityRepository persists account profiles across the role-scoped
// collections.
type MongoIdentityRepository struct {
	db *mongo.Database
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{db: db}
}

func (r *MongoIdentityRepository) collection(role string) (*mongo.Collection, error) {
	name, ok := roleCollections[role]
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	return r.db.Collection(name), nil
}

func (r *MongoIdentityRepository) Create(ctx context.Context, profile *domain.AccountProfile) error {
	coll, err := r.collection(profile.Role)
	if err != nil {
		return err
	}

	// One account per email across all roles.
	if existing, err := r.FindByEmail(ctx, profile.Email); err == nil && existing != nil {
		return domain.ErrUserExists
	}

	if _, err := coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.AccountProfile, error) {
	for _, role := range []string{domain.RolePatient, domain.RoleDoctor, domain.RoleHospital, domain.RoleLoanProvider} {
		profile, err := r.FindByRoleAndEmail(ctx, role, email)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MongoIdentityRepository) FindByRoleAndEmail(ctx context.Context, role, email string) (*domain.AccountProfile, error) {
	coll, err := r.collection(role)
	if err != nil {
		return nil, err
	}

	var profile domain.AccountProfile
	if err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &profile, nil
}

func (r *MongoIdentityRepository) FindOrganization(ctx context.Context, organizationID string) (*domain.AccountProfile, error) {
	var profile domain.AccountProfile
	err := r.db.Collection(organizationsCollection).
		FindOne(ctx, bson.M{"role_id": organizationID}).
		Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUnknownOrganisation
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &profile, nil
}

func (r *MongoIdentityRepository) FindProviderByID(ctx context.Context, loanProviderID string) (*domain.AccountProfile, error) {
	var profile domain.AccountProfile
	err := r.db.Collection(loanProvidersCollection).
		FindOne(ctx, bson.M{"role_id": loanProviderID}).
		Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find loan provider: %w", err)
	}
	return &profile, nil
}

func (r *MongoIdentityRepository) ListByRole(ctx context.Context, role string) ([]*domain.AccountProfile, error) {
	coll, err := r.collection(role)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []*domain.AccountProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return profiles, nil
}

// UpdateProfile builds a $set document from the non-nil update fields and
// returns the merged profile. Email and role never appear in the update.
func (r *MongoIdentityRepository) UpdateProfile(ctx context.Context, role, email string, update domain.ProfileUpdate) (*domain.AccountProfile, error) {
	coll, err := r.collection(role)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.DateOfBirth != nil {
		set["date_of_birth"] = *update.DateOfBirth
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.ProfileCompleted != nil {
		set["profile_completed"] = *update.ProfileCompleted
	}
	for k, v := range update.Extra {
		set["extra."+k] = v
	}
	if len(set) == 0 {
		return r.FindByRoleAndEmail(ctx, role, email)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile domain.AccountProfile
	err = coll.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}
