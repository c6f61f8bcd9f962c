package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/doctor"
	"medibook/services/notification"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DoctorHandler serves the doctor account surface and the public directory.
type DoctorHandler struct {
	Service       doctor.DoctorService
	Notifications notification.NotificationService
}

// NewDoctorHandler creates a new DoctorHandler instance.
func NewDoctorHandler(svc doctor.DoctorService, notifications notification.NotificationService) *DoctorHandler {
	return &DoctorHandler{Service: svc, Notifications: notifications}
}

// RegisterDoctorHandler drives the multi-step registration: the body's step
// field selects initiate, verify_otp, or finalize.
func (h *DoctorHandler) RegisterDoctorHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	switch req.Step {
	case RegStepInitiate:
		if req.DoctorData == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "doctorData is required for the initiate step"})
			return
		}
		device, err := deviceFromContext(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sessionID, code, err := h.Service.InitiateRegistration(*req.DoctorData, device)
		if err != nil {
			logger.Error("Doctor registration initiation failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionID": sessionID, "code": code, "message": "OTP sent"})

	case RegStepVerifyOTP:
		if req.SessionID == "" || req.OTP == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID and otp are required for the verify_otp step"})
			return
		}
		deviceID := c.GetString("deviceID")
		code, err := h.Service.VerifyRegistrationOTP(req.SessionID, deviceID, req.OTP)
		if err != nil {
			logger.Error("Doctor registration OTP verification failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionID": req.SessionID, "code": code, "message": "OTP verified"})

	case RegStepFinalize:
		if req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID is required for the finalize step"})
			return
		}
		authResp, err := h.Service.FinalizeRegistration(req.SessionID)
		if err != nil {
			logger.Error("Doctor registration finalization failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, authResp)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown registration step"})
	}
}

// AuthenticateDoctorHandler signs a doctor in, with the same OTP challenge
// flow for unknown devices as the patient variant.
func (h *DoctorHandler) AuthenticateDoctorHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		SessionID string `json:"sessionID"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid sign-in request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	device, err := deviceFromContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authResp, err := h.Service.Authenticate(req.Email, req.Password, device, req.SessionID)
	if err != nil {
		if otpErr, ok := err.(doctor.OTPPendingError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verification required",
				"code":      models.RegStepOTPSent,
				"sessionID": otpErr.SessionID,
			})
			return
		}
		logger.Error("Doctor sign-in failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResp)
}
