// File: services/doctor/signin.go
package doctor

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

// Authenticate signs a doctor in on the given device. Known devices get a
// fresh token immediately; unknown devices must pass OTP verification first
// and are rejected outright once the account holds the maximum number of
// devices.
func (s *DefaultDoctorService) Authenticate(email, password string, currentDevice models.Device, providedSessionID string) (*AuthResponse, error) {
	doctorRec, err := s.Repo.GetByEmailWithProjection(email, bson.M{})
	if err != nil {
		utils.GetLogger().Error("Authenticate: Failed to fetch doctor", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if doctorRec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctorRec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	sessionClient := utils.GetAuthCacheClient()
	ctx := context.Background()

	sessionID := providedSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("%s:%s", doctorRec.ID, currentDevice.DeviceID)
		authSession := utils.AuthSession{
			AccountID: doctorRec.ID,
			Role:      "doctor",
			Email:     doctorRec.Email,
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
	for idx, d := range doctorRec.Devices {
		if d.DeviceID == currentDevice.DeviceID {
			deviceExists = true
			doctorRec.Devices[idx].IP = currentDevice.IP
			doctorRec.Devices[idx].Location = currentDevice.Location
			break
		}
	}

	if !deviceExists {
		if authSession.Status != "otp_verified" {
			if len(doctorRec.Devices) >= models.MaxDevices {
				return nil, fmt.Errorf("maximum device limit reached. Only %d devices are allowed", models.MaxDevices)
			}
			otpKey := fmt.Sprintf("otp:%s:%s", doctorRec.ID, currentDevice.DeviceID)
			if _, err := utils.GetOTPCacheClient().Get(ctx, otpKey).Result(); err != nil {
				if err := utils.InitiateOTP(doctorRec.ID, currentDevice.DeviceID, doctorRec.PhoneNumber); err != nil {
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
		doctorRec.Devices = append(doctorRec.Devices, currentDevice)
	}

	// Clear any stale cached token for this device.
	cacheKey := utils.AuthCachePrefix + doctorRec.ID + ":" + currentDevice.DeviceID
	if err := sessionClient.Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Authenticate: Failed to clear old token cache", zap.Error(err))
	}

	token, err := utils.GenerateToken(doctorRec.ID, currentDevice.DeviceID, utils.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	for idx, d := range doctorRec.Devices {
		if d.DeviceID == currentDevice.DeviceID {
			doctorRec.Devices[idx].TokenHash = tokenHash
			doctorRec.Devices[idx].LastLogin = time.Now()
			break
		}
	}

	if err := s.Repo.UpdateSetDocument(doctorRec.ID, bson.M{"devices": doctorRec.Devices}); err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	_ = utils.DeleteAuthSession(sessionClient, sessionID)

	return &AuthResponse{
		ID:             doctorRec.ID,
		Token:          token,
		FullName:       doctorRec.FullName,
		Email:          doctorRec.Email,
		PhoneNumber:    doctorRec.PhoneNumber,
		Specialization: doctorRec.Specialization,
		Verified:       doctorRec.Verified,
		AvatarURL:      doctorRec.AvatarURL,
	}, nil
}
