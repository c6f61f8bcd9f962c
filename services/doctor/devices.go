// File: services/doctor/devices.go
package doctor

import (
	"context"
	"fmt"

	"medibook/models"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultDoctorService) GetDevices(doctorID string) ([]models.Device, error) {
	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve doctor: %w", err)
	}
	if doctorRec == nil {
		return nil, fmt.Errorf("doctor not found")
	}
	return doctorRec.Devices, nil
}

func (s *DefaultDoctorService) SignOutOtherDevices(doctorID, currentDeviceID string) error {
	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to retrieve doctor: %w", err)
	}
	if doctorRec == nil {
		return fmt.Errorf("doctor not found")
	}

	filteredDevices := []models.Device{}
	authCache := utils.GetAuthCacheClient()
	for _, device := range doctorRec.Devices {
		if device.DeviceID == currentDeviceID {
			filteredDevices = append(filteredDevices, device)
			continue
		}
		cacheKey := utils.AuthCachePrefix + doctorID + ":" + device.DeviceID
		_ = authCache.Del(context.Background(), cacheKey).Err()
	}

	if err := s.Repo.UpdateSetDocument(doctorID, bson.M{"devices": filteredDevices}); err != nil {
		return fmt.Errorf("failed to update doctor devices: %w", err)
	}

	return nil
}
