// File: database/repository/patient/crud.go
package patientRepo

import (
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new patient document.
func (r *MongoPatientRepo) Create(patient *models.Patient) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing patient document.
func (r *MongoPatientRepo) Update(patient *models.Patient) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	patient.UpdatedAt = time.Now()
	filter := bson.M{"id": patient.ID}
	update := bson.M{"$set": patient}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update patient with id %s: %w", patient.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("patient with id %s not found", patient.ID)
	}
	return nil
}

// UpdateSetDocument applies a $set patch to the patient record.
func (r *MongoPatientRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	updateDoc["updated_at"] = time.Now()
	filter := bson.M{"id": id}
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update patient with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("patient with id %s not found", id)
	}
	return nil
}

// Delete removes a patient document by its ID.
func (r *MongoPatientRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete patient with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("patient with id %s not found", id)
	}
	return nil
}
