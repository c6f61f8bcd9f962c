// File: services/notification/notification.go
package notification

import (
	"context"
	"time"

	"medibook/models"
	"medibook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AddNotification appends a notification record. It runs on the caller's
// context, so inside a unit of work the append commits or rolls back with
// the rest of the transaction.
func (s *DefaultNotificationService) AddNotification(ctx context.Context, notification *models.Notification) error {
	return s.Repo.Insert(ctx, notification)
}

// Notify pushes a "new message" signal to the user's devices. It is
// best-effort: every failure is logged and swallowed, since the transition
// that triggered it has already committed.
func (s *DefaultNotificationService) Notify(userID string) {
	logger := utils.GetLogger()

	token := s.resolveFCMToken(userID)
	if token == "" {
		logger.Debug("No FCM token for user, skipping push", zap.String("userID", userID))
		return
	}
	if utils.FCMClient == nil {
		logger.Debug("FCM client not initialized, skipping push", zap.String("userID", userID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New message",
			Body:  "You have a new message in medibook.",
		},
		Data: map[string]string{"type": "new_message"},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Error("Failed to send new-message push",
			zap.String("userID", userID), zap.Error(err))
	}
}

// ListUserNotifications returns the user's notifications, newest first.
func (s *DefaultNotificationService) ListUserNotifications(userID string, limit int) ([]models.Notification, error) {
	return s.Repo.ListByUser(context.Background(), userID, limit)
}

// resolveFCMToken finds the push token behind an account ID. IDs are unique
// across the patient and doctor collections, so both are tried.
func (s *DefaultNotificationService) resolveFCMToken(userID string) string {
	projection := bson.M{"id": 1, "fcm_token": 1}

	if patient, err := s.Patients.GetByIDWithProjection(userID, projection); err == nil && patient != nil {
		return patient.FCMToken
	}
	if doctor, err := s.Doctors.GetByIDWithProjection(userID, projection); err == nil && doctor != nil {
		return doctor.FCMToken
	}
	return ""
}
