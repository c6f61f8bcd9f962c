package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/notification"
	"medibook/services/patient"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registration steps accepted by the register endpoints.
const (
	RegStepInitiate  = "initiate"
	RegStepVerifyOTP = "verify_otp"
	RegStepFinalize  = "finalize"
)

// PatientHandler serves the patient account surface.
type PatientHandler struct {
	Service       patient.PatientService
	Notifications notification.NotificationService
}

// NewPatientHandler creates a new PatientHandler instance.
func NewPatientHandler(svc patient.PatientService, notifications notification.NotificationService) *PatientHandler {
	return &PatientHandler{Service: svc, Notifications: notifications}
}

// RegisterPatientHandler drives the multi-step registration: the body's step
// field selects initiate, verify_otp, or finalize.
func (h *PatientHandler) RegisterPatientHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	switch req.Step {
	case RegStepInitiate:
		if req.PatientData == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patientData is required for the initiate step"})
			return
		}
		device, err := deviceFromContext(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sessionID, code, err := h.Service.InitiateRegistration(*req.PatientData, device)
		if err != nil {
			logger.Error("Patient registration initiation failed", zap.Error(err))
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
			logger.Error("Patient registration OTP verification failed", zap.Error(err))
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
			logger.Error("Patient registration finalization failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, authResp)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown registration step"})
	}
}

// AuthenticatePatientHandler signs a patient in. Unknown devices get an OTP
// challenge: the response carries code 100 and the session ID to finish via
// the verify-otp endpoint, after which the client repeats the call.
func (h *PatientHandler) AuthenticatePatientHandler(c *gin.Context) {
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
		if otpErr, ok := err.(patient.OTPPendingError); ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "OTP verification required",
				"code":      models.RegStepOTPSent,
				"sessionID": otpErr.SessionID,
			})
			return
		}
		logger.Error("Patient sign-in failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, authResp)
}
