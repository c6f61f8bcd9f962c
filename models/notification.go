package models

import "time"

// Notification is an appended-only message addressed to one account
// (patient or doctor). Records are written as a side effect of appointment
// transitions and are never updated afterwards.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"user_id" json:"userId"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}

// Notification types written by the scheduling service.
const (
	NotificationTypeReserved     = "appointment_reserved"
	NotificationTypeUnsubscribed = "appointment_unsubscribed"
	NotificationTypeCanceled     = "appointment_canceled"
)
