package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/doctor"
	"medibook/services/patient"

	"github.com/gin-gonic/gin"
)

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
	SessionID   string `json:"sessionID"`
}

// ResetPatientPasswordHandler drives the three-step patient password reset:
// request OTP, verify it, then submit the replacement password.
func (h *PatientHandler) ResetPatientPasswordHandler(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.ResetPassword(req.Email, req.OTP, req.NewPassword, req.SessionID)
	if err != nil {
		if otpErr, ok := err.(patient.OTPPendingError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verification required",
				"code":      models.RegStepOTPSent,
				"sessionID": otpErr.SessionID,
			})
			return
		}
		if npErr, ok := err.(patient.NewPasswordRequiredError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verified. New password required.",
				"code":      models.RegStepOTPVerified,
				"sessionID": npErr.SessionID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been successfully reset. Please sign in with your new password."})
}

// ResetDoctorPasswordHandler is the doctor counterpart of the reset flow.
func (h *DoctorHandler) ResetDoctorPasswordHandler(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.ResetPassword(req.Email, req.OTP, req.NewPassword, req.SessionID)
	if err != nil {
		if otpErr, ok := err.(doctor.OTPPendingError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verification required",
				"code":      models.RegStepOTPSent,
				"sessionID": otpErr.SessionID,
			})
			return
		}
		if npErr, ok := err.(doctor.NewPasswordRequiredError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verified. New password required.",
				"code":      models.RegStepOTPVerified,
				"sessionID": npErr.SessionID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been successfully reset. Please sign in with your new password."})
}
