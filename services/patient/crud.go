// File: services/patient/crud.go
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

// GetPatientByID retrieves a patient by ID, excluding sensitive fields.
func (s *DefaultPatientService) GetPatientByID(patientID string) (*models.Patient, error) {
	projection := bson.M{"password_hash": 0, "devices": 0}
	patientRec, err := s.Repo.GetByIDWithProjection(patientID, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patientRec, nil
}

// UpdatePatient updates non-empty profile fields using a partial update.
func (s *DefaultPatientService) UpdatePatient(req models.PatientUpdateRequest) (*models.Patient, error) {
	logger := utils.GetLogger()

	if req.ID == "" {
		logger.Error("Patient ID is required for update")
		return nil, fmt.Errorf("patient ID is required for update")
	}

	updateFields := bson.M{}
	if req.FullName != "" {
		updateFields["full_name"] = req.FullName
	}
	if req.PhoneNumber != "" {
		updateFields["phone_number"] = req.PhoneNumber
	}
	if req.BirthDate != "" {
		updateFields["birth_date"] = req.BirthDate
	}
	if req.Address != "" {
		updateFields["address"] = req.Address
	}
	if req.FCMToken != "" {
		updateFields["fcm_token"] = req.FCMToken
	}

	if len(updateFields) == 0 {
		logger.Warn("No updatable fields provided")
		return nil, fmt.Errorf("no updatable fields provided")
	}

	if err := s.Repo.UpdateSetDocument(req.ID, updateFields); err != nil {
		logger.Error("Failed to update patient", zap.String("patientID", req.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	updated, err := s.Repo.GetByIDWithProjection(req.ID, bson.M{"password_hash": 0, "devices": 0})
	if err != nil {
		logger.Error("Failed to fetch updated patient", zap.String("patientID", req.ID), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// UpdatePassword updates the patient's password and signs out other devices.
func (s *DefaultPatientService) UpdatePassword(patientID, currentPassword, newPassword, currentDeviceID string) error {
	existing, err := s.Repo.GetByIDWithProjection(patientID, bson.M{})
	if err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("patient not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	// Retain only the current device if multiple devices exist.
	devices := existing.Devices
	authCache := utils.GetAuthCacheClient()
	if len(devices) > 1 {
		var retained []models.Device
		for _, d := range devices {
			if d.DeviceID == currentDeviceID {
				retained = append(retained, d)
			} else {
				cacheKey := utils.AuthCachePrefix + patientID + ":" + d.DeviceID
				_ = authCache.Del(context.Background(), cacheKey).Err()
			}
		}
		devices = retained
	}

	updateFields := bson.M{
		"password_hash": string(newHash),
		"devices":       devices,
	}
	if err := s.Repo.UpdateSetDocument(patientID, updateFields); err != nil {
		return fmt.Errorf("failed to update patient password: %w", err)
	}
	return nil
}

// UpdateAvatar uploads a new avatar image and stores its public URL.
func (s *DefaultPatientService) UpdateAvatar(patientID, localFilePath string) (*models.Patient, error) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID, err := s.Storage.UploadFile(ctx, localFilePath, utils.BucketAvatars)
	if err != nil {
		logger.Error("Failed to upload avatar", zap.String("patientID", patientID), zap.Error(err))
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL, err := s.Storage.GetDownloadURL(ctx, "image", publicID, 0)
	if err != nil {
		logger.Error("Failed to resolve avatar URL", zap.String("patientID", patientID), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve avatar URL: %w", err)
	}

	if err := s.Repo.UpdateSetDocument(patientID, bson.M{"avatar_url": avatarURL}); err != nil {
		logger.Error("Failed to store avatar URL", zap.String("patientID", patientID), zap.Error(err))
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return s.Repo.GetByIDWithProjection(patientID, bson.M{"password_hash": 0, "devices": 0})
}

// DeletePatient removes a patient account. Active reservations are released
// through the normal unsubscribe path first so doctors get notified.
func (s *DefaultPatientService) DeletePatient(patientID string) error {
	logger := utils.GetLogger()

	existing, err := s.Repo.GetByIDWithProjection(patientID, bson.M{"id": 1, "devices": 1})
	if err != nil {
		logger.Error("Failed to fetch patient for deletion", zap.String("patientID", patientID), zap.Error(err))
		return fmt.Errorf("failed to delete patient, please try again")
	}
	if existing == nil {
		return fmt.Errorf("patient not found")
	}

	reservations, err := s.Appointments.ListReservations(patientID)
	if err != nil {
		logger.Error("Failed to list reservations for deletion", zap.String("patientID", patientID), zap.Error(err))
		return fmt.Errorf("failed to delete patient, please try again")
	}
	for _, appt := range reservations {
		if err := s.Appointments.Unsubscribe(patientID, appt.ID); err != nil {
			logger.Error("Failed to release reservation during deletion",
				zap.String("patientID", patientID), zap.String("appointmentID", appt.ID), zap.Error(err))
			return fmt.Errorf("failed to delete patient, please try again")
		}
	}

	if err := s.Repo.Delete(patientID); err != nil {
		return fmt.Errorf("failed to delete patient with id %s: %w", patientID, err)
	}

	// Clear auth cache entries for all of the account's devices.
	authCache := utils.GetAuthCacheClient()
	for _, d := range existing.Devices {
		cacheKey := utils.AuthCachePrefix + patientID + ":" + d.DeviceID
		_ = authCache.Del(context.Background(), cacheKey).Err()
	}

	return nil
}

// RevokeAuthToken signs out a single device by clearing its token hash and
// evicting its auth cache entry.
func (s *DefaultPatientService) RevokeAuthToken(patientID, deviceID string) error {
	patientRec, err := s.Repo.GetByIDWithProjection(patientID, bson.M{})
	if err != nil {
		utils.GetLogger().Error("Failed to retrieve patient", zap.String("patientID", patientID), zap.Error(err))
		return fmt.Errorf("failed to logout, please try again")
	}
	if patientRec == nil {
		return fmt.Errorf("patient not found")
	}

	deviceFound := false
	for i, d := range patientRec.Devices {
		if d.DeviceID == deviceID {
			patientRec.Devices[i].TokenHash = ""
			deviceFound = true
			break
		}
	}
	if !deviceFound {
		return fmt.Errorf("device not found")
	}

	if err := s.Repo.UpdateSetDocument(patientID, bson.M{"devices": patientRec.Devices}); err != nil {
		utils.GetLogger().Error("Failed to revoke auth token", zap.String("patientID", patientID), zap.Error(err))
		return fmt.Errorf("failed to logout, please try again")
	}

	cacheKey := utils.AuthCachePrefix + patientID + ":" + deviceID
	authCache := utils.GetAuthCacheClient()
	if err := authCache.Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Failed to clear auth cache on logout", zap.Error(err))
	}

	return nil
}
