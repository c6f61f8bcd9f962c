// File: services/patient/devices.go
package patient

import (
	"context"
	"fmt"

	"medibook/models"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultPatientService) GetDevices(patientID string) ([]models.Device, error) {
	patientRec, err := s.Repo.GetByIDWithProjection(patientID, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve patient: %w", err)
	}
	if patientRec == nil {
		return nil, fmt.Errorf("patient not found")
	}
	return patientRec.Devices, nil
}

func (s *DefaultPatientService) SignOutOtherDevices(patientID, currentDeviceID string) error {
	patientRec, err := s.Repo.GetByIDWithProjection(patientID, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to retrieve patient: %w", err)
	}
	if patientRec == nil {
		return fmt.Errorf("patient not found")
	}

	filteredDevices := []models.Device{}
	authCache := utils.GetAuthCacheClient()
	for _, device := range patientRec.Devices {
		if device.DeviceID == currentDeviceID {
			filteredDevices = append(filteredDevices, device)
			continue
		}
		cacheKey := utils.AuthCachePrefix + patientID + ":" + device.DeviceID
		_ = authCache.Del(context.Background(), cacheKey).Err()
	}

	if err := s.Repo.UpdateSetDocument(patientID, bson.M{"devices": filteredDevices}); err != nil {
		return fmt.Errorf("failed to update patient devices: %w", err)
	}

	return nil
}
