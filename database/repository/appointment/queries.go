// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20

// historyQuery builds the Mongo filter for a doctor's history listing.
func historyQuery(doctorID string, f models.HistoryFilter) bson.M {
	query := bson.M{"doctor_id": doctorID}

	if f.PatientName != "" {
		query["patient_name"] = bson.M{
			"$regex":   regexp.QuoteMeta(f.PatientName),
			"$options": "i",
		}
	}
	if len(f.Statuses) > 0 {
		query["status"] = bson.M{"$in": f.Statuses}
	}

	timeRange := bson.M{}
	if f.From != nil {
		timeRange["$gte"] = *f.From
	}
	if f.Till != nil {
		timeRange["$lte"] = *f.Till
	}
	if len(timeRange) > 0 {
		query["start_time"] = timeRange
	}
	return query
}

func (r *mongoAppointmentRepo) ListHistory(ctx context.Context, doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	query := historyQuery(doctorID, filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointment history: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment history: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointment history: %w", err)
	}

	return &models.AppointmentPage{
		Appointments: appts,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
	}, nil
}

func (r *mongoAppointmentRepo) ListAvailable(ctx context.Context, filter models.AvailableFilter) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	timeRange := bson.M{"$gte": filter.From}
	if filter.Till != nil {
		timeRange["$lte"] = *filter.Till
	}
	query := bson.M{
		"doctor_id":  filter.DoctorID,
		"status":     models.StatusOpen,
		"start_time": timeRange,
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list available appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode available appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) ListReservedByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{
		"patient_id": patientID,
		"status":     models.StatusReserved,
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient reservations: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode patient reservations: %w", err)
	}
	return appts, nil
}
