// File: services/appointment/errors.go
package appointment

// Error is a domain failure reason with a stable message. Values compare
// with errors.Is. Wrong-status reasons are not defined here; they come from
// the transition methods on models.Appointment.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrAppointmentNotFound Error = "appointment not found"
	ErrNotYourAppointment  Error = "not your appointment"
	ErrInvalidSlotTimes    Error = "slot end time must be after its start time"
	ErrDoctorRequired      Error = "doctor id is required"
	ErrFromRequired        Error = "from date is required"
)

// ErrSchedulingFailed is what infrastructure failures collapse into after
// being logged. Callers never see the underlying persistence error.
const ErrSchedulingFailed Error = "scheduling failed, please try again"
