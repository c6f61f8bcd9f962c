package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"medibook/models"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// patientIDFromContext reads the authenticated patient's ID set by the auth
// middleware.
func patientIDFromContext(c *gin.Context) (string, bool) {
	patientID := c.GetString("patientID")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient ID not found in context"})
		return "", false
	}
	return patientID, true
}

// GetPatientHandler handles GET /patients/me.
func (h *PatientHandler) GetPatientHandler(c *gin.Context) {
	logger := utils.GetLogger()
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	patientRec, err := h.Service.GetPatientByID(patientID)
	if err != nil {
		logger.Error("Patient not found", zap.String("id", patientID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patientRec)
}

// UpdatePatientHandler handles PUT /patients/me.
func (h *PatientHandler) UpdatePatientHandler(c *gin.Context) {
	logger := utils.GetLogger()
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	var req models.PatientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = patientID

	updated, err := h.Service.UpdatePatient(req)
	if err != nil {
		logger.Error("Failed to update patient", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdatePatientPasswordHandler handles PUT /patients/me/password.
// It expects a JSON payload with "currentPassword" and "newPassword".
func (h *PatientHandler) UpdatePatientPasswordHandler(c *gin.Context) {
	logger := utils.GetLogger()
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}
	deviceID := c.GetString("deviceID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device ID"})
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid update password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.UpdatePassword(patientID, req.CurrentPassword, req.NewPassword, deviceID); err != nil {
		logger.Error("Failed to update patient password", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated. Other devices have been signed out."})
}

// UploadPatientAvatarHandler handles POST /patients/me/avatar (multipart).
func (h *PatientHandler) UploadPatientAvatarHandler(c *gin.Context) {
	logger := utils.GetLogger()
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	updated, err := h.Service.UpdateAvatar(patientID, tempFilePath)
	if err != nil {
		logger.Error("Failed to update patient avatar", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePatientHandler handles DELETE /patients/me.
func (h *PatientHandler) DeletePatientHandler(c *gin.Context) {
	logger := utils.GetLogger()
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Service.DeletePatient(patientID); err != nil {
		logger.Error("Delete error", zap.String("id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient account deleted"})
}
