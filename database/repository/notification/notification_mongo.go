// File: database/repository/notification/notification_mongo.go
package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoNotificationRepo) Insert(ctx context.Context, notification *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}
