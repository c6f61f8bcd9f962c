// File: services/appointment/listing.go
package appointment

import (
	"context"

	"medibook/models"
	"medibook/utils"

	"go.uber.org/zap"
)

// ListHistory returns one page of the doctor's appointment history. Expired
// open slots are swept first, so a stale slot never survives into the
// response.
func (s *DefaultAppointmentService) ListHistory(doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error) {
	logger := utils.GetLogger()
	ctx := context.Background()

	if err := s.sweepExpired(ctx, doctorID); err != nil {
		logger.Error("Failed to sweep expired appointments",
			zap.String("doctorID", doctorID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}

	page, err := s.Repo.ListHistory(ctx, doctorID, filter)
	if err != nil {
		logger.Error("Failed to list appointment history",
			zap.String("doctorID", doctorID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}

	// Patients who reserved without sharing their info stay anonymous to
	// the doctor.
	for i := range page.Appointments {
		if !page.Appointments[i].ShareInfo {
			page.Appointments[i].PatientID = ""
			page.Appointments[i].PatientName = ""
		}
	}
	return page, nil
}

// ListAvailable returns a doctor's open slots within the requested range,
// earliest first.
func (s *DefaultAppointmentService) ListAvailable(filter models.AvailableFilter) ([]models.Appointment, error) {
	if filter.DoctorID == "" {
		return nil, ErrDoctorRequired
	}
	if filter.From.IsZero() {
		return nil, ErrFromRequired
	}

	appts, err := s.Repo.ListAvailable(context.Background(), filter)
	if err != nil {
		utils.GetLogger().Error("Failed to list available appointments",
			zap.String("doctorID", filter.DoctorID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}
	return appts, nil
}

// ListReservations returns the patient's active reservations, earliest
// first.
func (s *DefaultAppointmentService) ListReservations(patientID string) ([]models.Appointment, error) {
	appts, err := s.Repo.ListReservedByPatient(context.Background(), patientID)
	if err != nil {
		utils.GetLogger().Error("Failed to list patient reservations",
			zap.String("patientID", patientID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}
	return appts, nil
}
