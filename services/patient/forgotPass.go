// File: services/patient/forgotPass.go
package patient

import (
	"context"
	"fmt"
	"time"

	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetPurpose = "reset_password"

// ResetPassword resets a patient's password via a three-state OTP-based flow.
// State 1: Called with email only → initiates OTP and returns OTPPendingError.
// State 2: Called with email and OTP (but no new password) → verifies OTP and returns NewPasswordRequiredError.
// State 3: Called with email, OTP, and new password → verifies OTP, validates and updates password.
func (s *DefaultPatientService) ResetPassword(email, providedOTP, newPassword, providedSessionID string) error {
	patientRec, err := s.Repo.GetByEmailWithProjection(email, bson.M{})
	if err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to fetch patient", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}
	if patientRec == nil {
		// Avoid exposing whether the email exists.
		return fmt.Errorf("invalid email")
	}

	sessionClient := utils.GetAuthCacheClient()
	ctx := context.Background()

	sessionID := providedSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("%s:%s", patientRec.ID, resetPurpose)
		authSession := utils.AuthSession{
			AccountID: patientRec.ID,
			Role:      "patient",
			Email:     patientRec.Email,
			Status:    "pending",
			CreatedAt: time.Now(),
		}
		if err := utils.SaveAuthSession(sessionClient, sessionID, authSession); err != nil {
			return fmt.Errorf("failed to create password reset session: %w", err)
		}
	}

	authSession, err := utils.GetAuthSession(sessionClient, sessionID)
	if err != nil {
		return fmt.Errorf("failed to retrieve password reset session: %w", err)
	}

	// State 1: no OTP and no new password yet, make sure an OTP is out.
	if providedOTP == "" && newPassword == "" {
		otpKey := fmt.Sprintf("otp:%s:%s", patientRec.ID, resetPurpose)
		if _, err := utils.GetOTPCacheClient().Get(ctx, otpKey).Result(); err != nil {
			if err := utils.InitiateOTP(patientRec.ID, resetPurpose, patientRec.PhoneNumber); err != nil {
				return fmt.Errorf("failed to initiate OTP: %w", err)
			}
			authSession.Status = "pending_otp"
			if err := utils.SaveAuthSession(sessionClient, sessionID, *authSession); err != nil {
				return fmt.Errorf("failed to update password reset session: %w", err)
			}
		}
		return OTPPendingError{SessionID: sessionID}
	}

	// Verify the OTP unless the session already passed verification.
	if authSession.Status != "otp_verified" {
		if err := utils.VerifyOTPRecord(patientRec.ID, resetPurpose, providedOTP); err != nil {
			return fmt.Errorf("OTP verification failed: %w", err)
		}
		authSession.Status = "otp_verified"
		if err := utils.SaveAuthSession(sessionClient, sessionID, *authSession); err != nil {
			return fmt.Errorf("failed to update password reset session: %w", err)
		}
	}

	// State 2: OTP verified but no new password provided yet.
	if newPassword == "" {
		return NewPasswordRequiredError{SessionID: sessionID}
	}

	// State 3: update the password.
	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process new password")
	}

	if err := s.Repo.UpdateSetDocument(patientRec.ID, bson.M{"password_hash": string(newHash)}); err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to update patient password", zap.Error(err))
		return fmt.Errorf("failed to update password")
	}

	_ = utils.DeleteAuthSession(sessionClient, sessionID)

	utils.GetLogger().Sugar().Infof("ResetPassword: Password updated for patient %s", patientRec.ID)
	return nil
}
