// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Returned by guarded writes when the document was not in the expected
// state. After a prior successful fetch this means a concurrent writer won
// the race.
var ErrStatusConflict = errors.New("appointment not in expected status")

// AppointmentRepository resolves appointment records by identifier. The
// guarded transition methods include the expected current status (and, where
// ownership matters, the owner) in the write filter, so concurrent attempts
// serialize on the document: the first committer wins and later writers get
// ErrStatusConflict.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID returns (nil, nil) when no appointment has the given ID.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// ReserveOpen moves an open appointment to reserved for the patient.
	ReserveOpen(ctx context.Context, apptID, patientID, patientName string, shareInfo bool) error
	// ReleaseReserved returns the patient's reserved appointment to open.
	ReleaseReserved(ctx context.Context, apptID, patientID string) error
	// CancelReserved marks the doctor's reserved appointment canceled.
	CancelReserved(ctx context.Context, apptID, doctorID string) error
	// DeleteOpen removes an un-reserved slot owned by the doctor.
	DeleteOpen(ctx context.Context, apptID, doctorID string) error

	// DeleteExpiredOpen removes the doctor's open appointments whose start
	// time lies before the given instant and reports how many went away.
	DeleteExpiredOpen(ctx context.Context, doctorID string, before time.Time) (int64, error)

	ListHistory(ctx context.Context, doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error)
	ListAvailable(ctx context.Context, filter models.AvailableFilter) ([]models.Appointment, error)
	ListReservedByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	repo := &mongoAppointmentRepo{
		coll: database.Collection("appointments"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create appointment indexes: %v\n", err)
	}
	return repo
}
