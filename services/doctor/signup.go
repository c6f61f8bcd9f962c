// File: services/doctor/signup.go
package doctor

import (
	"fmt"
	"time"

	"medibook/models"
	"medibook/services/patient"
	"medibook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// InitiateRegistration validates basic data, checks for duplicates, creates a
// registration session, initiates OTP, and returns the session ID with code
// 100 (OTP pending).
func (s *DefaultDoctorService) InitiateRegistration(basicReq models.DoctorBasicRegistrationData, device models.Device) (string, int, error) {
	if basicReq.Email == "" || basicReq.Password == "" || basicReq.FullName == "" ||
		basicReq.PhoneNumber == "" || basicReq.Specialization == "" || basicReq.LicenseNumber == "" {
		return "", 0, fmt.Errorf("all fields are required")
	}

	existing, err := s.Repo.GetByEmailWithProjection(basicReq.Email, bson.M{"id": 1})
	if err != nil {
		utils.GetLogger().Error("InitiateRegistration: failed to check for existing doctor", zap.Error(err))
		return "", 0, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return "", 0, fmt.Errorf("a doctor with this email already exists")
	}

	sessionClient := utils.GetAuthCacheClient()
	sessionID := fmt.Sprintf("%s:%s", basicReq.Email, device.DeviceID)

	regSession := models.RegistrationSession{
		TempID:        sessionID,
		Role:          "doctor",
		DoctorData:    &basicReq,
		OTPStatus:     "pending",
		Device:        device,
		CreatedAt:     time.Now(),
		LastUpdatedAt: time.Now(),
	}

	if err := utils.InitiateOTP(basicReq.Email, device.DeviceID, basicReq.PhoneNumber); err != nil {
		return "", 0, fmt.Errorf("failed to initiate OTP: %w", err)
	}

	if err := patient.SaveRegistrationSession(sessionClient, sessionID, regSession, patient.RegistrationSessionTTL); err != nil {
		return "", 0, fmt.Errorf("failed to save registration session: %w", err)
	}

	return sessionID, models.RegStepOTPSent, nil
}

// VerifyRegistrationOTP retrieves the session, verifies the OTP, updates the
// session to "verified", and returns code 101 (OTP verified).
func (s *DefaultDoctorService) VerifyRegistrationOTP(sessionID, deviceID, providedOTP string) (int, error) {
	sessionClient := utils.GetAuthCacheClient()
	regSession, err := patient.GetRegistrationSession(sessionClient, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve registration session")
	}
	if regSession.DoctorData == nil {
		return 0, fmt.Errorf("registration session missing basic data")
	}

	if err := utils.VerifyOTPRecord(regSession.DoctorData.Email, deviceID, providedOTP); err != nil {
		return 0, fmt.Errorf("OTP verification failed: %w", err)
	}

	regSession.OTPStatus = "verified"
	regSession.LastUpdatedAt = time.Now()
	if err := patient.SaveRegistrationSession(sessionClient, sessionID, regSession, patient.RegistrationSessionTTL); err != nil {
		return 0, fmt.Errorf("failed to update registration session")
	}

	return models.RegStepOTPVerified, nil
}

// FinalizeRegistration builds and persists the doctor record from the
// verified session, registers the creating device with its first token, and
// clears the session. The account starts unverified; directory visibility
// requires admin approval of the identity documents.
func (s *DefaultDoctorService) FinalizeRegistration(sessionID string) (*AuthResponse, error) {
	sessionClient := utils.GetAuthCacheClient()
	regSession, err := patient.GetRegistrationSession(sessionClient, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve registration session")
	}
	if regSession.OTPStatus != "verified" {
		return nil, fmt.Errorf("OTP not verified")
	}
	if regSession.DoctorData == nil {
		return nil, fmt.Errorf("registration session missing basic data")
	}

	if err := patient.VerifyPasswordComplexity(regSession.DoctorData.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(regSession.DoctorData.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	doctorObj := models.Doctor{
		ID:             uuid.New().String(),
		FullName:       regSession.DoctorData.FullName,
		Email:          regSession.DoctorData.Email,
		PasswordHash:   string(hashedPassword),
		PhoneNumber:    regSession.DoctorData.PhoneNumber,
		Specialization: regSession.DoctorData.Specialization,
		LicenseNumber:  regSession.DoctorData.LicenseNumber,
		Bio:            regSession.DoctorData.Bio,
		Address:        regSession.DoctorData.Address,
		Verified:       false,
	}

	device := regSession.Device
	device.LastLogin = time.Now()
	device.Creator = true

	token, err := utils.GenerateToken(doctorObj.ID, device.DeviceID, utils.TokenTTL)
	if err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	device.TokenHash = utils.HashToken(token)
	doctorObj.Devices = []models.Device{device}

	if err := s.Repo.Create(&doctorObj); err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	_ = patient.DeleteRegistrationSession(sessionClient, sessionID)

	return &AuthResponse{
		ID:             doctorObj.ID,
		Token:          token,
		FullName:       doctorObj.FullName,
		Email:          doctorObj.Email,
		PhoneNumber:    doctorObj.PhoneNumber,
		Specialization: doctorObj.Specialization,
		Verified:       doctorObj.Verified,
	}, nil
}
