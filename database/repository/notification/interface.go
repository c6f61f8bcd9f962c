// File: database/repository/notification/interface.go
package notificationRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository persists appended-only notification records.
// Insert participates in whatever transaction the caller's context carries,
// so a notification commits together with the appointment transition that
// produced it.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a new MongoDB NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	return &mongoNotificationRepo{
		coll: database.Collection("notifications"),
	}
}
