package models

import "time"

// Doctor is a registered doctor account. Diploma and passport uploads are
// stored encrypted; only their storage identifiers live on the record.
type Doctor struct {
	ID             string    `bson:"id" json:"id"`
	FullName       string    `bson:"full_name" json:"fullName"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	PhoneNumber    string    `bson:"phone_number" json:"phoneNumber"`
	Specialization string    `bson:"specialization" json:"specialization"`
	LicenseNumber  string    `bson:"license_number" json:"licenseNumber"`
	Bio            string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	AvatarURL      string    `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	DiplomaFileID  string    `bson:"diploma_file_id,omitempty" json:"-"`
	PassportFileID string    `bson:"passport_file_id,omitempty" json:"-"`
	Verified       bool      `bson:"verified" json:"verified"`
	Devices        []Device  `bson:"devices" json:"-"`
	FCMToken       string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// DoctorUpdateRequest carries the editable profile fields. Zero values are
// ignored by the update.
type DoctorUpdateRequest struct {
	ID             string `json:"-"`
	FullName       string `json:"fullName,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Address        string `json:"address,omitempty"`
	FCMToken       string `json:"fcmToken,omitempty"`
}

// DoctorCard is the public directory view of a doctor.
type DoctorCard struct {
	ID             string `bson:"id" json:"id"`
	FullName       string `bson:"full_name" json:"fullName"`
	Specialization string `bson:"specialization" json:"specialization"`
	Bio            string `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL      string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Verified       bool   `bson:"verified" json:"verified"`
}

// DoctorSearchCriteria filters the public directory. Page is 1-indexed.
type DoctorSearchCriteria struct {
	Specialization string `form:"specialization"`
	Name           string `form:"name"`
	Page           int    `form:"page"`
	PageSize       int    `form:"pageSize"`
}
