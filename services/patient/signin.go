// File: services/patient/signin.go
package patient

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticate signs a patient in on the given device. Known devices get a
// fresh token immediately; unknown devices must pass OTP verification first
// and are rejected outright once the account holds the maximum number of
// devices.
func (s *DefaultPatientService) Authenticate(email, password string, currentDevice models.Device, providedSessionID string) (*AuthResponse, error) {
	patientRec, err := s.Repo.GetByEmailWithProjection(email, bson.M{})
	if err != nil {
		utils.GetLogger().Error("Authenticate: Failed to fetch patient", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if patientRec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patientRec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	sessionClient := utils.GetAuthCacheClient()
	ctx := context.Background()

	sessionID := providedSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("%s:%s", patientRec.ID, currentDevice.DeviceID)
		authSession := utils.AuthSession{
			AccountID: patientRec.ID,
			Role:      "patient",
			Email:     patientRec.Email,
			Device: utils.DeviceSessionInfo{
				DeviceID:   currentDevice.DeviceID,
				DeviceName: currentDevice.DeviceName,
				IP:         currentDevice.IP,
				Location:   currentDevice.Location,
			},
			Status:    "pending",
			CreatedAt: time.Now(),
		}
		if err := utils.SaveAuthSession(sessionClient, sessionID, authSession); err != nil {
			return nil, fmt.Errorf("failed to create auth session: %w", err)
		}
	}

	authSession, err := utils.GetAuthSession(sessionClient, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve auth session: %w", err)
	}

	deviceExists := false
	for idx, d := range patientRec.Devices {
		if d.DeviceID == currentDevice.DeviceID {
			deviceExists = true
			patientRec.Devices[idx].IP = currentDevice.IP
			patientRec.Devices[idx].Location = currentDevice.Location
			break
		}
	}

	if !deviceExists {
		if authSession.Status != "otp_verified" {
			if len(patientRec.Devices) >= models.MaxDevices {
				return nil, fmt.Errorf("maximum device limit reached. Only %d devices are allowed", models.MaxDevices)
			}
			otpKey := fmt.Sprintf("otp:%s:%s", patientRec.ID, currentDevice.DeviceID)
			if _, err := utils.GetOTPCacheClient().Get(ctx, otpKey).Result(); err != nil {
				if err := utils.InitiateOTP(patientRec.ID, currentDevice.DeviceID, patientRec.PhoneNumber); err != nil {
					return nil, fmt.Errorf("failed to initiate OTP: %w", err)
				}
				authSession.Status = "pending_otp"
				if err := utils.SaveAuthSession(sessionClient, sessionID, *authSession); err != nil {
					return nil, fmt.Errorf("failed to update auth session: %w", err)
				}
			}
			return nil, OTPPendingError{SessionID: sessionID}
		}
		// OTP verified: register the new device.
		currentDevice.LastLogin = time.Now()
		currentDevice.Creator = false
		patientRec.Devices = append(patientRec.Devices, currentDevice)
	}

	// Clear any stale cached token for this device.
	cacheKey := utils.AuthCachePrefix + patientRec.ID + ":" + currentDevice.DeviceID
	if err := sessionClient.Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Authenticate: Failed to clear old token cache", zap.Error(err))
	}

	token, err := utils.GenerateToken(patientRec.ID, currentDevice.DeviceID, utils.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	for idx, d := range patientRec.Devices {
		if d.DeviceID == currentDevice.DeviceID {
			patientRec.Devices[idx].TokenHash = tokenHash
			patientRec.Devices[idx].LastLogin = time.Now()
			break
		}
	}

	if err := s.Repo.UpdateSetDocument(patientRec.ID, bson.M{"devices": patientRec.Devices}); err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	_ = utils.DeleteAuthSession(sessionClient, sessionID)

	return &AuthResponse{
		ID:          patientRec.ID,
		Token:       token,
		FullName:    patientRec.FullName,
		Email:       patientRec.Email,
		PhoneNumber: patientRec.PhoneNumber,
		AvatarURL:   patientRec.AvatarURL,
	}, nil
}
