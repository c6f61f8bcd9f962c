package models

import "time"

// Patient is a registered patient account. PasswordHash and device token
// hashes never leave the server.
type Patient struct {
	ID           string    `bson:"id" json:"id"`
	FullName     string    `bson:"full_name" json:"fullName"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	PhoneNumber  string    `bson:"phone_number" json:"phoneNumber"`
	BirthDate    string    `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	AvatarURL    string    `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Devices      []Device  `bson:"devices" json:"-"`
	FCMToken     string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// PatientUpdateRequest carries the editable profile fields. Zero values are
// ignored by the update.
type PatientUpdateRequest struct {
	ID          string `json:"-"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	Address     string `json:"address,omitempty"`
	FCMToken    string `json:"fcmToken,omitempty"`
}
