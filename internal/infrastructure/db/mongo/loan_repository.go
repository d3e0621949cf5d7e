package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelink/health-exchange/internal/core/domain"
	"github.com/carelink/health-exchange/internal/core/ports"
)

const loansCollection = "loan_requests"

// MongoLoanRepository persists medical-loan requests.
type MongoLoanRepository struct {
	coll *mongo.Collection
}

func NewLoanRepository(db *mongo.Database) *MongoLoanRepository {
	return &MongoLoanRepository{coll: db.Collection(loansCollection)}
}

func (r *MongoLoanRepository) Insert(ctx context.Context, loan *domain.LoanRequest) error {
	if _, err := r.coll.InsertOne(ctx, loan); err != nil {
		return fmt.Errorf("insert loan request: %w", err)
	}
	return nil
}

func (r *MongoLoanRepository) FindByLoanID(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	var loan domain.LoanRequest
	if err := r.coll.FindOne(ctx, bson.M{"loan_id": loanID}).Decode(&loan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan request: %w", err)
	}
	return &loan, nil
}

func (r *MongoLoanRepository) ListByPatient(ctx context.Context, patientEmail string) ([]*domain.LoanRequest, error) {
	return r.list(ctx, bson.M{"patient_email": patientEmail})
}

func (r *MongoLoanRepository) ListByProvider(ctx context.Context, loanProviderID string, filter ports.LoanListFilter) ([]*domain.LoanRequest, error) {
	query := bson.M{"loan_provider_id": loanProviderID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	return r.list(ctx, query)
}

func (r *MongoLoanRepository) list(ctx context.Context, filter bson.M) ([]*domain.LoanRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list loan requests: %w", err)
	}
	defer cur.Close(ctx)

	var loans []*domain.LoanRequest
	if err := cur.All(ctx, &loans); err != nil {
		return nil, fmt.Errorf("decode loan requests: %w", err)
	}
	return loans, nil
}

// UpdateStatus atomically sets the new status, the approved amount when
// provided, and updated_at.
func (r *MongoLoanRepository) UpdateStatus(ctx context.Context, loanID string, status domain.LoanStatus, approvedAmount *int64) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if approvedAmount != nil {
		set["approved_amount"] = *approvedAmount
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"loan_id": loanID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update loan status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}
