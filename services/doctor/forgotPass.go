// File: services/doctor/forgotPass.go
package doctor

import (
	"context"
	"fmt"
	"time"

	"medibook/services/patient"
	"medibook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetPurpose = "reset_password"

// ResetPassword resets a doctor's password via the same three-state OTP flow
// used for patients: initiate OTP, verify OTP, then accept the new password.
func (s *DefaultDoctorService) ResetPassword(email, providedOTP, newPassword, providedSessionID string) error {
	doctorRec, err := s.Repo.GetByEmailWithProjection(email, bson.M{})
	if err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to fetch doctor", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}
	if doctorRec == nil {
		// Avoid exposing whether the email exists.
		return fmt.Errorf("invalid email")
	}

	sessionClient := utils.GetAuthCacheClient()
	ctx := context.Background()

	sessionID := providedSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("%s:%s", doctorRec.ID, resetPurpose)
		authSession := utils.AuthSession{
			AccountID: doctorRec.ID,
			Role:      "doctor",
			Email:     doctorRec.Email,
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
		otpKey := fmt.Sprintf("otp:%s:%s", doctorRec.ID, resetPurpose)
		if _, err := utils.GetOTPCacheClient().Get(ctx, otpKey).Result(); err != nil {
			if err := utils.InitiateOTP(doctorRec.ID, resetPurpose, doctorRec.PhoneNumber); err != nil {
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
		if err := utils.VerifyOTPRecord(doctorRec.ID, resetPurpose, providedOTP); err != nil {
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
	if err := patient.VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process new password")
	}

	if err := s.Repo.UpdateSetDocument(doctorRec.ID, bson.M{"password_hash": string(newHash)}); err != nil {
		utils.GetLogger().Error("ResetPassword: Failed to update doctor password", zap.Error(err))
		return fmt.Errorf("failed to update password")
	}

	_ = utils.DeleteAuthSession(sessionClient, sessionID)

	utils.GetLogger().Sugar().Infof("ResetPassword: Password updated for doctor %s", doctorRec.ID)
	return nil
}
