// File: database/repository/appointment/transitions.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// The transition writes carry the expected current status (and owner, where
// the transition requires one) in the filter. A MatchedCount of zero after a
// successful fetch means another request changed the document first.

func (r *mongoAppointmentRepo) ReserveOpen(ctx context.Context, apptID, patientID, patientName string, shareInfo bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": apptID, "status": models.StatusOpen}
	update := bson.M{
		"$set": bson.M{
			"status":       models.StatusReserved,
			"patient_id":   patientID,
			"patient_name": patientName,
			"share_info":   shareInfo,
		},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve appointment %s: %w", apptID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *mongoAppointmentRepo) ReleaseReserved(ctx context.Context, apptID, patientID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         apptID,
		"status":     models.StatusReserved,
		"patient_id": patientID,
	}
	update := bson.M{
		"$set":   bson.M{"status": models.StatusOpen, "share_info": false},
		"$unset": bson.M{"patient_id": "", "patient_name": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release appointment %s: %w", apptID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *mongoAppointmentRepo) CancelReserved(ctx context.Context, apptID, doctorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":        apptID,
		"status":    models.StatusReserved,
		"doctor_id": doctorID,
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCanceled}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment %s: %w", apptID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}
