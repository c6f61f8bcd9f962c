// File: database/repository/doctor/crud.go
package doctorRepo

import (
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new doctor document.
func (r *MongoDoctorRepo) Create(doctor *models.Doctor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing doctor document.
func (r *MongoDoctorRepo) Update(doctor *models.Doctor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	doctor.UpdatedAt = time.Now()
	filter := bson.M{"id": doctor.ID}
	update := bson.M{"$set": doctor}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update doctor with id %s: %w", doctor.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("doctor with id %s not found", doctor.ID)
	}
	return nil
}

// UpdateSetDocument applies a $set patch to the doctor record.
func (r *MongoDoctorRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	updateDoc["updated_at"] = time.Now()
	filter := bson.M{"id": id}
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update doctor with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("doctor with id %s not found", id)
	}
	return nil
}

// Delete removes a doctor document by its ID.
func (r *MongoDoctorRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete doctor with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("doctor with id %s not found", id)
	}
	return nil
}
