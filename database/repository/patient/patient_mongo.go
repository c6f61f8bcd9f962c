// File: database/repository/patient/patient_mongo.go
package patientRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPatientRepo implements PatientRepository using MongoDB.
type MongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo creates a new instance of PatientRepository using MongoDB.
func NewMongoPatientRepo() PatientRepository {
	repo := &MongoPatientRepo{coll: database.Collection("patients")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create patient indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPatientRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDWithProjection retrieves a patient by its unique ID using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoPatientRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Patient, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var patient models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&patient); err != nil {
		return nil, fmt.Errorf("failed to fetch patient with id %s: %w", id, err)
	}
	return &patient, nil
}

// GetByEmailWithProjection retrieves a patient by its email using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoPatientRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.Patient, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var patient models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&patient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch patient with email %s: %w", email, err)
	}
	return &patient, nil
}

// GetByID retrieves a patient by its unique ID (full document).
func (r *MongoPatientRepo) GetByID(id string) (*models.Patient, error) {
	return r.GetByIDWithProjection(id, nil)
}

// GetByEmail retrieves a patient by its email address (full document).
func (r *MongoPatientRepo) GetByEmail(email string) (*models.Patient, error) {
	return r.GetByEmailWithProjection(email, nil)
}
