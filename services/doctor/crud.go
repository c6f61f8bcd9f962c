// File: services/doctor/crud.go
package doctor

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
	"medibook/services/patient"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// GetDoctorByID retrieves a doctor by ID, excluding sensitive fields.
func (s *DefaultDoctorService) GetDoctorByID(doctorID string) (*models.Doctor, error) {
	projection := bson.M{"password_hash": 0, "devices": 0}
	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctorRec, nil
}

// UpdateDoctor updates non-empty profile fields using a partial update.
func (s *DefaultDoctorService) UpdateDoctor(req models.DoctorUpdateRequest) (*models.Doctor, error) {
	logger := utils.GetLogger()

	if req.ID == "" {
		logger.Error("Doctor ID is required for update")
		return nil, fmt.Errorf("doctor ID is required for update")
	}

	updateFields := bson.M{}
	if req.FullName != "" {
		updateFields["full_name"] = req.FullName
	}
	if req.PhoneNumber != "" {
		updateFields["phone_number"] = req.PhoneNumber
	}
	if req.Specialization != "" {
		updateFields["specialization"] = req.Specialization
	}
	if req.Bio != "" {
		updateFields["bio"] = req.Bio
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
		logger.Error("Failed to update doctor", zap.String("doctorID", req.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	updated, err := s.Repo.GetByIDWithProjection(req.ID, bson.M{"password_hash": 0, "devices": 0})
	if err != nil {
		logger.Error("Failed to fetch updated doctor", zap.String("doctorID", req.ID), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// UpdatePassword updates the doctor's password and signs out other devices.
func (s *DefaultDoctorService) UpdatePassword(doctorID, currentPassword, newPassword, currentDeviceID string) error {
	existing, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{})
	if err != nil {
		return fmt.Errorf("doctor not found: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("doctor not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	if err := patient.VerifyPasswordComplexity(newPassword); err != nil {
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
				cacheKey := utils.AuthCachePrefix + doctorID + ":" + d.DeviceID
				_ = authCache.Del(context.Background(), cacheKey).Err()
			}
		}
		devices = retained
	}

	updateFields := bson.M{
		"password_hash": string(newHash),
		"devices":       devices,
	}
	if err := s.Repo.UpdateSetDocument(doctorID, updateFields); err != nil {
		return fmt.Errorf("failed to update doctor password: %w", err)
	}
	return nil
}

// UpdateAvatar uploads a new avatar image and stores its public URL.
func (s *DefaultDoctorService) UpdateAvatar(doctorID, localFilePath string) (*models.Doctor, error) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID, err := s.Storage.UploadFile(ctx, localFilePath, utils.BucketAvatars)
	if err != nil {
		logger.Error("Failed to upload avatar", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL, err := s.Storage.GetDownloadURL(ctx, "image", publicID, 0)
	if err != nil {
		logger.Error("Failed to resolve avatar URL", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve avatar URL: %w", err)
	}

	if err := s.Repo.UpdateSetDocument(doctorID, bson.M{"avatar_url": avatarURL}); err != nil {
		logger.Error("Failed to store avatar URL", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return s.Repo.GetByIDWithProjection(doctorID, bson.M{"password_hash": 0, "devices": 0})
}

// DeleteDoctor removes a doctor account. Open slots are deleted and active
// reservations canceled through the normal scheduling paths first, so
// affected patients get notified.
func (s *DefaultDoctorService) DeleteDoctor(doctorID string) error {
	logger := utils.GetLogger()

	existing, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{"id": 1, "devices": 1})
	if err != nil {
		logger.Error("Failed to fetch doctor for deletion", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to delete doctor, please try again")
	}
	if existing == nil {
		return fmt.Errorf("doctor not found")
	}

	if err := s.releaseSchedule(doctorID); err != nil {
		return err
	}

	if err := s.Repo.Delete(doctorID); err != nil {
		return fmt.Errorf("failed to delete doctor with id %s: %w", doctorID, err)
	}

	// Clear auth cache entries for all of the account's devices.
	authCache := utils.GetAuthCacheClient()
	for _, d := range existing.Devices {
		cacheKey := utils.AuthCachePrefix + doctorID + ":" + d.DeviceID
		_ = authCache.Del(context.Background(), cacheKey).Err()
	}

	return nil
}

// releaseSchedule winds down the doctor's remaining appointments: reserved
// ones are canceled (notifying the patient), open ones deleted. History pages
// are re-fetched from the first page because each round shrinks the set.
func (s *DefaultDoctorService) releaseSchedule(doctorID string) error {
	logger := utils.GetLogger()
	filter := models.HistoryFilter{
		Statuses: []models.AppointmentStatus{models.StatusOpen, models.StatusReserved},
		Page:     1,
		PageSize: 100,
	}

	for {
		page, err := s.Appointments.ListHistory(doctorID, filter)
		if err != nil {
			logger.Error("Failed to list appointments for deletion", zap.String("doctorID", doctorID), zap.Error(err))
			return fmt.Errorf("failed to delete doctor, please try again")
		}
		if len(page.Appointments) == 0 {
			return nil
		}

		for _, appt := range page.Appointments {
			switch appt.Status {
			case models.StatusReserved:
				err = s.Appointments.Cancel(doctorID, appt.ID)
			default:
				err = s.Appointments.DeleteSlot(doctorID, appt.ID)
			}
			if err != nil {
				logger.Error("Failed to wind down appointment during deletion",
					zap.String("doctorID", doctorID), zap.String("appointmentID", appt.ID), zap.Error(err))
				return fmt.Errorf("failed to delete doctor, please try again")
			}
		}
	}
}

// RevokeAuthToken signs out a single device by clearing its token hash and
// evicting its auth cache entry.
func (s *DefaultDoctorService) RevokeAuthToken(doctorID, deviceID string) error {
	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{})
	if err != nil {
		utils.GetLogger().Error("Failed to retrieve doctor", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to logout, please try again")
	}
	if doctorRec == nil {
		return fmt.Errorf("doctor not found")
	}

	deviceFound := false
	for i, d := range doctorRec.Devices {
		if d.DeviceID == deviceID {
			doctorRec.Devices[i].TokenHash = ""
			deviceFound = true
			break
		}
	}
	if !deviceFound {
		return fmt.Errorf("device not found")
	}

	if err := s.Repo.UpdateSetDocument(doctorID, bson.M{"devices": doctorRec.Devices}); err != nil {
		utils.GetLogger().Error("Failed to revoke auth token", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to logout, please try again")
	}

	cacheKey := utils.AuthCachePrefix + doctorID + ":" + deviceID
	authCache := utils.GetAuthCacheClient()
	if err := authCache.Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Failed to clear auth cache on logout", zap.Error(err))
	}

	return nil
}
