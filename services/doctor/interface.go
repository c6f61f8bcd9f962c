// File: services/doctor/interface.go
package doctor

import (
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/appointment"
	"medibook/services/storage"
)

// DoctorService covers the doctor account lifecycle plus the public
// directory. New accounts stay unverified until an admin reviews the
// uploaded identity documents; unverified doctors do not appear in search
// results.
type DoctorService interface {
	// Registration
	InitiateRegistration(basicReq models.DoctorBasicRegistrationData, device models.Device) (string, int, error)
	VerifyRegistrationOTP(sessionID, deviceID, providedOTP string) (int, error)
	FinalizeRegistration(sessionID string) (*AuthResponse, error)

	// Authentication
	Authenticate(email, password string, currentDevice models.Device, providedSessionID string) (*AuthResponse, error)
	ResetPassword(email, providedOTP, newPassword, providedSessionID string) error
	RevokeAuthToken(doctorID, deviceID string) error

	// Account management
	GetDoctorByID(doctorID string) (*models.Doctor, error)
	UpdateDoctor(req models.DoctorUpdateRequest) (*models.Doctor, error)
	UpdatePassword(doctorID, currentPassword, newPassword, currentDeviceID string) error
	UpdateAvatar(doctorID, localFilePath string) (*models.Doctor, error)
	DeleteDoctor(doctorID string) error

	// Device management
	GetDevices(doctorID string) ([]models.Device, error)
	SignOutOtherDevices(doctorID, currentDeviceID string) error

	// Verification documents
	UploadDiploma(doctorID, localFilePath string) error
	UploadPassport(doctorID, localFilePath string) error

	// Public directory
	Search(criteria models.DoctorSearchCriteria) ([]models.DoctorCard, error)
	ListSpecializations() ([]models.Specialization, error)

	// Admin verification
	ListPendingVerification() ([]models.Doctor, error)
	ApproveDoctor(doctorID string) error
	GetVerificationDocuments(doctorID string) (*VerificationDocuments, error)
}

// DefaultDoctorService is the production implementation. Appointments is
// consulted on account deletion so open slots are removed and reservations
// canceled through the normal paths, notifications included.
type DefaultDoctorService struct {
	Repo         doctorRepo.DoctorRepository
	Appointments appointment.AppointmentService
	Storage      storage.StorageService
}

// NewDefaultDoctorService wires the doctor service.
func NewDefaultDoctorService(
	repo doctorRepo.DoctorRepository,
	appointments appointment.AppointmentService,
	storageSvc storage.StorageService,
) *DefaultDoctorService {
	return &DefaultDoctorService{Repo: repo, Appointments: appointments, Storage: storageSvc}
}

// AuthResponse is returned on successful registration or sign-in.
type AuthResponse struct {
	ID             string `json:"id"`
	Token          string `json:"token"`
	FullName       string `json:"fullName,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Verified       bool   `json:"verified"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
}

// VerificationDocuments carries short-lived signed URLs for an admin to
// review a doctor's identity documents.
type VerificationDocuments struct {
	DoctorID    string `json:"doctorId"`
	DiplomaURL  string `json:"diplomaUrl,omitempty"`
	PassportURL string `json:"passportUrl,omitempty"`
}
