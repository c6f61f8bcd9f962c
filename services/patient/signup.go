// File: services/patient/signup.go
package patient

import (
	"fmt"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// InitiateRegistration validates basic data, checks for duplicates, creates a
// registration session, initiates OTP, and returns the session ID with code
// 100 (OTP pending).
func (s *DefaultPatientService) InitiateRegistration(basicReq models.PatientBasicRegistrationData, device models.Device) (string, int, error) {
	if basicReq.Email == "" || basicReq.Password == "" || basicReq.FullName == "" || basicReq.PhoneNumber == "" {
		return "", 0, fmt.Errorf("all fields are required")
	}

	existing, err := s.Repo.GetByEmailWithProjection(basicReq.Email, bson.M{"id": 1})
	if err != nil {
		utils.GetLogger().Error("InitiateRegistration: failed to check for existing patient", zap.Error(err))
		return "", 0, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return "", 0, fmt.Errorf("a patient with this email already exists")
	}

	sessionClient := utils.GetAuthCacheClient()
	sessionID := fmt.Sprintf("%s:%s", basicReq.Email, device.DeviceID)

	regSession := models.RegistrationSession{
		TempID:        sessionID,
		Role:          "patient",
		PatientData:   &basicReq,
		OTPStatus:     "pending",
		Device:        device,
		CreatedAt:     time.Now(),
		LastUpdatedAt: time.Now(),
	}

	if err := utils.InitiateOTP(basicReq.Email, device.DeviceID, basicReq.PhoneNumber); err != nil {
		return "", 0, fmt.Errorf("failed to initiate OTP: %w", err)
	}

	if err := SaveRegistrationSession(sessionClient, sessionID, regSession, RegistrationSessionTTL); err != nil {
		return "", 0, fmt.Errorf("failed to save registration session: %w", err)
	}

	return sessionID, models.RegStepOTPSent, nil
}

// VerifyRegistrationOTP retrieves the session, verifies the OTP, updates the
// session to "verified", and returns code 101 (OTP verified).
func (s *DefaultPatientService) VerifyRegistrationOTP(sessionID, deviceID, providedOTP string) (int, error) {
	sessionClient := utils.GetAuthCacheClient()
	regSession, err := GetRegistrationSession(sessionClient, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve registration session")
	}
	if regSession.PatientData == nil {
		return 0, fmt.Errorf("registration session missing basic data")
	}

	if err := utils.VerifyOTPRecord(regSession.PatientData.Email, deviceID, providedOTP); err != nil {
		return 0, fmt.Errorf("OTP verification failed: %w", err)
	}

	regSession.OTPStatus = "verified"
	regSession.LastUpdatedAt = time.Now()
	if err := SaveRegistrationSession(sessionClient, sessionID, regSession, RegistrationSessionTTL); err != nil {
		return 0, fmt.Errorf("failed to update registration session")
	}

	return models.RegStepOTPVerified, nil
}

// FinalizeRegistration builds and persists the patient record from the
// verified session, registers the creating device with its first token, and
// clears the session.
func (s *DefaultPatientService) FinalizeRegistration(sessionID string) (*AuthResponse, error) {
	sessionClient := utils.GetAuthCacheClient()
	regSession, err := GetRegistrationSession(sessionClient, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve registration session")
	}
	if regSession.OTPStatus != "verified" {
		return nil, fmt.Errorf("OTP not verified")
	}
	if regSession.PatientData == nil {
		return nil, fmt.Errorf("registration session missing basic data")
	}

	if err := VerifyPasswordComplexity(regSession.PatientData.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(regSession.PatientData.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	patientObj := models.Patient{
		ID:           uuid.New().String(),
		FullName:     regSession.PatientData.FullName,
		Email:        regSession.PatientData.Email,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  regSession.PatientData.PhoneNumber,
		BirthDate:    regSession.PatientData.BirthDate,
		Address:      regSession.PatientData.Address,
	}

	device := regSession.Device
	device.LastLogin = time.Now()
	device.Creator = true

	token, err := utils.GenerateToken(patientObj.ID, device.DeviceID, utils.TokenTTL)
	if err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	device.TokenHash = utils.HashToken(token)
	patientObj.Devices = []models.Device{device}

	if err := s.Repo.Create(&patientObj); err != nil {
		utils.GetLogger().Error("FinalizeRegistration: Failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	_ = DeleteRegistrationSession(sessionClient, sessionID)

	return &AuthResponse{
		ID:          patientObj.ID,
		Token:       token,
		FullName:    patientObj.FullName,
		Email:       patientObj.Email,
		PhoneNumber: patientObj.PhoneNumber,
	}, nil
}
