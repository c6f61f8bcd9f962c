// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.Status == "" {
		appt.Status = models.StatusOpen
	}
	appt.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) DeleteOpen(ctx context.Context, apptID, doctorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":        apptID,
		"doctor_id": doctorID,
		"status":    models.StatusOpen,
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete appointment %s: %w", apptID, err)
	}
	if res.DeletedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *mongoAppointmentRepo) DeleteExpiredOpen(ctx context.Context, doctorID string, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctor_id":  doctorID,
		"status":     models.StatusOpen,
		"start_time": bson.M{"$lt": before},
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired appointments for doctor %s: %w", doctorID, err)
	}
	return res.DeletedCount, nil
}
