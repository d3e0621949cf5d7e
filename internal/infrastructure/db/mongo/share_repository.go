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

const sharesCollection = "shared_profiles"

// MongoShareRepository persists shared health profiles.
type MongoShareRepository struct {
	coll *mongo.Collection
}

func NewShareRepository(db *mongo.Database) *MongoShareRepository {
	return &MongoShareRepository{coll: db.Collection(sharesCollection)}
}

func (r *MongoShareRepository) Insert(ctx context.Context, share *domain.SharedProfile) error {
	if _, err := r.coll.InsertOne(ctx, share); err != nil {
		return fmt.Errorf("insert shared profile: %w", err)
	}
	return nil
}

func (r *MongoShareRepository) FindBySharedID(ctx context.Context, sharedID string) (*domain.SharedProfile, error) {
	var share domain.SharedProfile
	if err := r.coll.FindOne(ctx, bson.M{"shared_id": sharedID}).Decode(&share); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShareNotFound
		}
		return nil, fmt.Errorf("find shared profile: %w", err)
	}
	return &share, nil
}

func (r *MongoShareRepository) ListByPatient(ctx context.Context, patientEmail string) ([]*domain.SharedProfile, error) {
	return r.list(ctx, bson.M{"patient_email": patientEmail})
}

func (r *MongoShareRepository) ListByPractitioner(ctx context.Context, practitionerID string) ([]*domain.SharedProfile, error) {
	return r.list(ctx, bson.M{"practitioner_id": practitionerID})
}

func (r *MongoShareRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.SharedProfile, error) {
	return r.list(ctx, bson.M{"organization_id": organizationID})
}

func (r *MongoShareRepository) list(ctx context.Context, filter bson.M) ([]*domain.SharedProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "shared_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list shared profiles: %w", err)
	}
	defer cur.Close(ctx)

	var shares []*domain.SharedProfile
	if err := cur.All(ctx, &shares); err != nil {
		return nil, fmt.Errorf("decode shared profiles: %w", err)
	}
	return shares, nil
}

func (r *MongoShareRepository) Delete(ctx context.Context, sharedID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"shared_id": sharedID})
	if err != nil {
		return fmt.Errorf("delete shared profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrShareNotFound
	}
	return nil
}
