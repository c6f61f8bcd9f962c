// File: services/patient/interface.go
package patient

import (
	patientRepo "medibook/database/repository/patient"
	"medibook/models"
	"medibook/services/appointment"
	"medibook/services/storage"
)

// PatientService covers the patient account lifecycle: OTP-backed
// registration, device-bounded sign-in, password reset, profile and device
// management.
type PatientService interface {
	// Registration
	InitiateRegistration(basicReq models.PatientBasicRegistrationData, device models.Device) (string, int, error)
	VerifyRegistrationOTP(sessionID, deviceID, providedOTP string) (int, error)
	FinalizeRegistration(sessionID string) (*AuthResponse, error)

	// Authentication
	Authenticate(email, password string, currentDevice models.Device, providedSessionID string) (*AuthResponse, error)
	ResetPassword(email, providedOTP, newPassword, providedSessionID string) error
	RevokeAuthToken(patientID, deviceID string) error

	// Account management
	GetPatientByID(patientID string) (*models.Patient, error)
	UpdatePatient(req models.PatientUpdateRequest) (*models.Patient, error)
	UpdatePassword(patientID, currentPassword, newPassword, currentDeviceID string) error
	UpdateAvatar(patientID, localFilePath string) (*models.Patient, error)
	DeletePatient(patientID string) error

	// Device management
	GetDevices(patientID string) ([]models.Device, error)
	SignOutOtherDevices(patientID, currentDeviceID string) error
}

// DefaultPatientService is the production implementation. Appointments is
// consulted on account deletion so active reservations are released through
// the normal unsubscribe path, notifications included.
type DefaultPatientService struct {
	Repo         patientRepo.PatientRepository
	Appointments appointment.AppointmentService
	Storage      storage.StorageService
}

// NewDefaultPatientService wires the patient service.
func NewDefaultPatientService(
	repo patientRepo.PatientRepository,
	appointments appointment.AppointmentService,
	storageSvc storage.StorageService,
) *DefaultPatientService {
	return &DefaultPatientService{Repo: repo, Appointments: appointments, Storage: storageSvc}
}

// AuthResponse is returned on successful registration or sign-in.
type AuthResponse struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}
