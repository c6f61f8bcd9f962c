// File: services/appointment/service.go
package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const notificationTimeFormat = "Mon, 2 Jan 2006 at 15:04"

// CreateSlot publishes a new open slot owned by the doctor.
func (s *DefaultAppointmentService) CreateSlot(doctorID string, req models.AppointmentCreateRequest) (*models.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidSlotTimes
	}

	appt := &models.Appointment{
		DoctorID:  doctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Address:   req.Address,
		Status:    models.StatusOpen,
	}
	if err := s.Repo.Create(context.Background(), appt); err != nil {
		utils.GetLogger().Error("Failed to create appointment slot",
			zap.String("doctorID", doctorID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}
	return appt, nil
}

// DeleteSlot removes an open, un-reserved slot owned by the doctor. Deleting
// is not a lifecycle transition, so no notification is produced.
func (s *DefaultAppointmentService) DeleteSlot(doctorID, appointmentID string) error {
	ctx := context.Background()

	appt, err := s.fetch(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.DoctorID != doctorID {
		return ErrNotYourAppointment
	}
	if appt.Status != models.StatusOpen {
		return models.ErrNotOpen
	}

	if err := s.Repo.DeleteOpen(ctx, appointmentID, doctorID); err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return models.ErrNotOpen
		}
		utils.GetLogger().Error("Failed to delete appointment slot",
			zap.String("appointmentID", appointmentID), zap.Error(err))
		return ErrSchedulingFailed
	}
	return nil
}

// Subscribe reserves an open appointment for the patient. The reservation
// and the doctor's notification commit as one transaction; the push signal
// goes out only after commit.
func (s *DefaultAppointmentService) Subscribe(patientID, appointmentID string, shareInfo bool) (*models.Appointment, error) {
	logger := utils.GetLogger()
	ctx := context.Background()

	patient, err := s.Patients.GetByIDWithProjection(patientID, bson.M{"id": 1, "full_name": 1})
	if err != nil {
		logger.Error("Failed to fetch subscribing patient",
			zap.String("patientID", patientID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}

	appt, err := s.fetch(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	reserved := *appt
	if err := reserved.Reserve(patientID, patient.FullName, shareInfo); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID: appt.DoctorID,
		Type:   models.NotificationTypeReserved,
		Title:  "New reservation",
		Body: fmt.Sprintf("%s reserved your appointment on %s.",
			reservingName(patient.FullName, shareInfo), appt.StartTime.Format(notificationTimeFormat)),
		Data: map[string]string{"appointmentId": appt.ID},
	}

	err = s.UoW.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Repo.ReserveOpen(txCtx, appointmentID, patientID, patient.FullName, shareInfo); err != nil {
			return err
		}
		return s.Sink.AddNotification(txCtx, notification)
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return nil, models.ErrNotOpen
		}
		logger.Error("Failed to reserve appointment",
			zap.String("appointmentID", appointmentID), zap.String("patientID", patientID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}

	s.Sink.Notify(appt.DoctorID)
	return &reserved, nil
}

// Unsubscribe releases the patient's reservation back to open and notifies
// the owning doctor.
func (s *DefaultAppointmentService) Unsubscribe(patientID, appointmentID string) error {
	logger := utils.GetLogger()
	ctx := context.Background()

	appt, err := s.fetch(ctx, appointmentID)
	if err != nil {
		return err
	}

	released := *appt
	if err := released.Release(); err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return ErrNotYourAppointment
	}

	notification := &models.Notification{
		UserID: appt.DoctorID,
		Type:   models.NotificationTypeUnsubscribed,
		Title:  "Reservation withdrawn",
		Body: fmt.Sprintf("The reservation for your appointment on %s was withdrawn; the slot is open again.",
			appt.StartTime.Format(notificationTimeFormat)),
		Data: map[string]string{"appointmentId": appt.ID},
	}

	err = s.UoW.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Repo.ReleaseReserved(txCtx, appointmentID, patientID); err != nil {
			return err
		}
		return s.Sink.AddNotification(txCtx, notification)
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return models.ErrNotReserved
		}
		logger.Error("Failed to release appointment",
			zap.String("appointmentID", appointmentID), zap.String("patientID", patientID), zap.Error(err))
		return ErrSchedulingFailed
	}

	s.Sink.Notify(appt.DoctorID)
	return nil
}

// Cancel moves a reserved appointment owned by the doctor to canceled and
// notifies the reserving patient.
func (s *DefaultAppointmentService) Cancel(doctorID, appointmentID string) error {
	logger := utils.GetLogger()
	ctx := context.Background()

	appt, err := s.fetch(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.DoctorID != doctorID {
		return ErrNotYourAppointment
	}

	canceled := *appt
	if err := canceled.Cancel(); err != nil {
		return err
	}

	notification := &models.Notification{
		UserID: appt.PatientID,
		Type:   models.NotificationTypeCanceled,
		Title:  "Appointment canceled",
		Body: fmt.Sprintf("Your appointment on %s was canceled by the doctor.",
			appt.StartTime.Format(notificationTimeFormat)),
		Data: map[string]string{"appointmentId": appt.ID},
	}

	err = s.UoW.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Repo.CancelReserved(txCtx, appointmentID, doctorID); err != nil {
			return err
		}
		return s.Sink.AddNotification(txCtx, notification)
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			return models.ErrNotReserved
		}
		logger.Error("Failed to cancel appointment",
			zap.String("appointmentID", appointmentID), zap.String("doctorID", doctorID), zap.Error(err))
		return ErrSchedulingFailed
	}

	s.Sink.Notify(appt.PatientID)
	return nil
}

// fetch loads an appointment, translating absence into the not-found reason
// and persistence errors into the generic failure.
func (s *DefaultAppointmentService) fetch(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch appointment",
			zap.String("appointmentID", appointmentID), zap.Error(err))
		return nil, ErrSchedulingFailed
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// reservingName is how the patient appears in the doctor's notification.
// Patients who withhold their info stay anonymous.
func reservingName(fullName string, shareInfo bool) string {
	if shareInfo && fullName != "" {
		return fullName
	}
	return "A patient"
}

// sweepExpired deletes the doctor's open slots whose start time has passed.
func (s *DefaultAppointmentService) sweepExpired(ctx context.Context, doctorID string) error {
	swept, err := s.Repo.DeleteExpiredOpen(ctx, doctorID, time.Now())
	if err != nil {
		return err
	}
	if swept > 0 {
		utils.GetLogger().Sugar().Infof("Swept %d expired open appointments for doctor %s", swept, doctorID)
	}
	return nil
}
