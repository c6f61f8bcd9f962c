// File: database/repository/doctor/doctor_mongo.go
package doctorRepo

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

// MongoDoctorRepo implements DoctorRepository using MongoDB.
type MongoDoctorRepo struct {
	coll  *mongo.Collection
	specs *mongo.Collection
}

// NewMongoDoctorRepo creates a new instance of DoctorRepository using MongoDB.
func NewMongoDoctorRepo() DoctorRepository {
	repo := &MongoDoctorRepo{
		coll:  database.Collection("doctors"),
		specs: database.Collection("specializations"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create doctor indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoDoctorRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDWithProjection retrieves a doctor by its unique ID using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoDoctorRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Doctor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doctor models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doctor); err != nil {
		return nil, fmt.Errorf("failed to fetch doctor with id %s: %w", id, err)
	}
	return &doctor, nil
}

// GetByEmailWithProjection retrieves a doctor by its email using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoDoctorRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.Doctor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doctor models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doctor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch doctor with email %s: %w", email, err)
	}
	return &doctor, nil
}

// GetByID retrieves a doctor by its unique ID (full document).
func (r *MongoDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	return r.GetByIDWithProjection(id, nil)
}

// GetByEmail retrieves a doctor by its email address (full document).
func (r *MongoDoctorRepo) GetByEmail(email string) (*models.Doctor, error) {
	return r.GetByEmailWithProjection(email, nil)
}
