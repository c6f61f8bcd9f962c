// File: services/appointment/interface.go
package appointment

import (
	"context"

	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	patientRepo "medibook/database/repository/patient"
	"medibook/models"
)

// AppointmentService drives the appointment lifecycle: doctors publish and
// cancel slots, patients reserve and release them. Every state transition
// and its notification are committed as one unit; domain failures are
// returned as typed reasons, infrastructure failures are logged and
// collapsed into ErrSchedulingFailed.
type AppointmentService interface {
	// CreateSlot publishes a new open slot owned by the doctor.
	CreateSlot(doctorID string, req models.AppointmentCreateRequest) (*models.Appointment, error)
	// DeleteSlot removes an open, un-reserved slot owned by the doctor.
	DeleteSlot(doctorID, appointmentID string) error
	// Cancel moves a reserved appointment owned by the doctor to canceled
	// and notifies the reserving patient.
	Cancel(doctorID, appointmentID string) error
	// ListHistory sweeps the doctor's expired open slots, then returns one
	// page of the doctor's appointment history.
	ListHistory(doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error)

	// Subscribe reserves an open appointment for the patient and notifies
	// the owning doctor.
	Subscribe(patientID, appointmentID string, shareInfo bool) (*models.Appointment, error)
	// Unsubscribe releases the patient's reservation back to open and
	// notifies the owning doctor.
	Unsubscribe(patientID, appointmentID string) error
	// ListAvailable returns a doctor's open slots within the requested
	// range, earliest first.
	ListAvailable(filter models.AvailableFilter) ([]models.Appointment, error)
	// ListReservations returns the patient's active reservations.
	ListReservations(patientID string) ([]models.Appointment, error)
}

// NotificationSink receives the notification side effects of appointment
// transitions. AddNotification runs inside the caller's transaction context
// so the append commits or rolls back with the transition. Notify signals
// the "new message" event after commit; it is best-effort and must not
// return.
type NotificationSink interface {
	AddNotification(ctx context.Context, notification *models.Notification) error
	Notify(userID string)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo     appointmentRepo.AppointmentRepository
	Patients patientRepo.PatientRepository
	Sink     NotificationSink
	UoW      database.UnitOfWork
}

// NewDefaultAppointmentService wires the scheduling service.
func NewDefaultAppointmentService(
	repo appointmentRepo.AppointmentRepository,
	patients patientRepo.PatientRepository,
	sink NotificationSink,
	uow database.UnitOfWork,
) *DefaultAppointmentService {
	return &DefaultAppointmentService{Repo: repo, Patients: patients, Sink: sink, UoW: uow}
}
