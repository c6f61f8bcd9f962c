// File: services/doctor/approval.go
package doctor

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Signed document URLs handed to admins stay valid only briefly.
const documentURLTTL = 15 * time.Minute

// ListPendingVerification returns doctors who uploaded both identity
// documents but have not been approved yet.
func (s *DefaultDoctorService) ListPendingVerification() ([]models.Doctor, error) {
	doctors, err := s.Repo.ListPendingVerification()
	if err != nil {
		utils.GetLogger().Error("Failed to list doctors pending verification", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending verifications, please try again")
	}
	return doctors, nil
}

// ApproveDoctor marks a doctor verified, making them visible in the public
// directory.
func (s *DefaultDoctorService) ApproveDoctor(doctorID string) error {
	logger := utils.GetLogger()

	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{"id": 1, "verified": 1, "diploma_file_id": 1, "passport_file_id": 1})
	if err != nil {
		logger.Error("Failed to fetch doctor for approval", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to approve doctor, please try again")
	}
	if doctorRec == nil {
		return fmt.Errorf("doctor not found")
	}
	if doctorRec.Verified {
		return nil
	}
	if doctorRec.DiplomaFileID == "" || doctorRec.PassportFileID == "" {
		return fmt.Errorf("doctor has not uploaded all verification documents")
	}

	if err := s.Repo.UpdateSetDocument(doctorID, bson.M{"verified": true}); err != nil {
		logger.Error("Failed to mark doctor verified", zap.String("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("failed to approve doctor, please try again")
	}

	logger.Sugar().Infof("Doctor %s approved for the public directory", doctorID)
	return nil
}

// GetVerificationDocuments builds short-lived signed URLs for the doctor's
// uploaded identity documents.
func (s *DefaultDoctorService) GetVerificationDocuments(doctorID string) (*VerificationDocuments, error) {
	logger := utils.GetLogger()

	doctorRec, err := s.Repo.GetByIDWithProjection(doctorID, bson.M{"id": 1, "diploma_file_id": 1, "passport_file_id": 1})
	if err != nil {
		logger.Error("Failed to fetch doctor documents", zap.String("doctorID", doctorID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch documents, please try again")
	}
	if doctorRec == nil {
		return nil, fmt.Errorf("doctor not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	docs := &VerificationDocuments{DoctorID: doctorID}
	if doctorRec.DiplomaFileID != "" {
		url, err := s.Storage.GetSecureDownloadURL(ctx, "image", doctorRec.DiplomaFileID, documentURLTTL)
		if err != nil {
			logger.Error("Failed to sign diploma URL", zap.String("doctorID", doctorID), zap.Error(err))
			return nil, fmt.Errorf("failed to fetch documents, please try again")
		}
		docs.DiplomaURL = url
	}
	if doctorRec.PassportFileID != "" {
		url, err := s.Storage.GetSecureDownloadURL(ctx, "image", doctorRec.PassportFileID, documentURLTTL)
		if err != nil {
			logger.Error("Failed to sign passport URL", zap.String("doctorID", doctorID), zap.Error(err))
			return nil, fmt.Errorf("failed to fetch documents, please try again")
		}
		docs.PassportURL = url
	}

	return docs, nil
}
