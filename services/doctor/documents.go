// File: services/doctor/documents.go
package doctor

import (
	"context"
	"fmt"
	"time"

	"medibook/config"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Identity documents are encrypted client-side of the storage provider, so
// the provider only ever holds ciphertext. The stored file ID is kept on the
// doctor record; admins review via short-lived signed URLs.

// UploadDiploma stores the doctor's encrypted diploma scan.
func (s *DefaultDoctorService) UploadDiploma(doctorID, localFilePath string) error {
	return s.uploadDocument(doctorID, localFilePath, utils.BucketDiplomas, "diploma_file_id")
}

// UploadPassport stores the doctor's encrypted passport scan.
func (s *DefaultDoctorService) UploadPassport(doctorID, localFilePath string) error {
	return s.uploadDocument(doctorID, localFilePath, utils.BucketPassports, "passport_file_id")
}

func (s *DefaultDoctorService) uploadDocument(doctorID, localFilePath, bucket, field string) error {
	logger := utils.GetLogger()

	encryptionKey := config.AppConfig.DocumentEncryptionKey
	if encryptionKey == "" {
		logger.Error("Document encryption key is not configured")
		return fmt.Errorf("document upload is not available")
	}

	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{"id": 1})
	if err != nil {
		logger.Error("Failed to fetch doctor for document upload", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to upload document, please try again")
	}
	if doctorRec == nil {
		return fmt.Errorf("doctor not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fileID, err := s.Storage.UploadEncryptedFile(ctx, localFilePath, bucket, encryptionKey)
	if err != nil {
		logger.Error("Failed to upload encrypted document",
			zap.String("doctorID", doctorID), zap.String("bucket", bucket), zap.Error(err))
		return fmt.Errorf("failed to upload document, please try again")
	}

	if err := s.Repo.UpdateSetDocument(doctorID, bson.M{field: fileID}); err != nil {
		logger.Error("Failed to store document reference",
			zap.String("doctorID", doctorID), zap.String("field", field), zap.Error(err))
		return fmt.Errorf("failed to upload document, please try again")
	}

	return nil
}
