// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
func (r *mongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// History listing: doctor + start time, newest first.
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "start_time", Value: -1}},
			Options: options.Index().SetName("doctor_start_idx"),
		},
		// Available-slot search and the expiry sweep.
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("doctor_status_start_idx"),
		},
		// Patient reservation listing.
		{
			Keys:    bson.D{{Key: "patient_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("patient_status_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
