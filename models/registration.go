package models

import "time"

// PatientBasicRegistrationData is the first-step payload of patient
// registration.
type PatientBasicRegistrationData struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	BirthDate   string `json:"birthDate"`
	Address     string `json:"address"`
}

// DoctorBasicRegistrationData is the first-step payload of doctor
// registration.
type DoctorBasicRegistrationData struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	PhoneNumber    string `json:"phoneNumber" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	LicenseNumber  string `json:"licenseNumber" binding:"required"`
	Bio            string `json:"bio"`
	Address        string `json:"address"`
}

// RegistrationRequest is the single registration endpoint's body; Step
// selects which stage the client is at.
type RegistrationRequest struct {
	Step        string                        `json:"step"`
	SessionID   string                        `json:"sessionID,omitempty"`
	OTP         string                        `json:"otp,omitempty"`
	PatientData *PatientBasicRegistrationData `json:"patientData,omitempty"`
	DoctorData  *DoctorBasicRegistrationData  `json:"doctorData,omitempty"`
}

// RegistrationSession is the Redis-held state of an in-flight registration.
type RegistrationSession struct {
	TempID        string                        `json:"tempId"`
	Role          string                        `json:"role"`
	PatientData   *PatientBasicRegistrationData `json:"patientData,omitempty"`
	DoctorData    *DoctorBasicRegistrationData  `json:"doctorData,omitempty"`
	OTPStatus     string                        `json:"otpStatus"`
	Device        Device                        `json:"device"`
	CreatedAt     time.Time                     `json:"createdAt"`
	LastUpdatedAt time.Time                     `json:"lastUpdatedAt"`
}

// Registration step codes returned to the client so it knows what to send
// next.
const (
	RegStepOTPSent     = 100
	RegStepOTPVerified = 101
)
