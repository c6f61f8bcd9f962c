// File: services/notification/interface.go
package notification

import (
	"context"

	doctorRepo "medibook/database/repository/doctor"
	notificationRepo "medibook/database/repository/notification"
	patientRepo "medibook/database/repository/patient"
	"medibook/models"
)

// NotificationService appends notifications and delivers "new message" push
// signals. AddNotification and Notify form the sink the appointment service
// writes through; ListUserNotifications backs the inbox endpoints.
type NotificationService interface {
	AddNotification(ctx context.Context, notification *models.Notification) error
	Notify(userID string)
	ListUserNotifications(userID string, limit int) ([]models.Notification, error)
}

// DefaultNotificationService is the production implementation. The account
// repositories are only consulted to resolve FCM push tokens.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	Patients patientRepo.PatientRepository
	Doctors  doctorRepo.DoctorRepository
}

// NewDefaultNotificationService wires the notification service.
func NewDefaultNotificationService(
	repo notificationRepo.NotificationRepository,
	patients patientRepo.PatientRepository,
	doctors doctorRepo.DoctorRepository,
) *DefaultNotificationService {
	return &DefaultNotificationService{Repo: repo, Patients: patients, Doctors: doctors}
}
