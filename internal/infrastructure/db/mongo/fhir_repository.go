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
)

const fhirPatientsCollection = "fhir_patients"

// fhirPatientDoc wraps the FHIR resource with the lookup key; the resource
// itself stays free of storage concerns.
type fhirPatientDoc struct {
	PatientEmail string              `bson:"patient_email"`
	Resource     *domain.FHIRPatient `bson:"resource"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

// MongoFHIRRepository persists one FHIR Patient projection per patient.
type MongoFHIRRepository struct {
	coll *mongo.Collection
}

func NewFHIRRepository(db *mongo.Database) *MongoFHIRRepository {
	return &MongoFHIRRepository{coll: db.Collection(fhirPatientsCollection)}
}

func (r *MongoFHIRRepository) Upsert(ctx context.Context, patientEmail string, resource *domain.FHIRPatient) error {
	doc := fhirPatientDoc{
		PatientEmail: patientEmail,
		Resource:     resource,
		UpdatedAt:    time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"patient_email": patientEmail}, doc, opts); err != nil {
		return fmt.Errorf("upsert fhir patient: %w", err)
	}
	return nil
}

func (r *MongoFHIRRepository) FindByPatientEmail(ctx context.Context, patientEmail string) (*domain.FHIRPatient, error) {
	var doc fhirPatientDoc
	if err := r.coll.FindOne(ctx, bson.M{"patient_email": patientEmail}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find fhir patient: %w", err)
	}
	return doc.Resource, nil
}
