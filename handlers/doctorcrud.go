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

// doctorIDFromContext reads the authenticated doctor's ID set by the auth
// middleware.
func doctorIDFromContext(c *gin.Context) (string, bool) {
	doctorID := c.GetString("doctorID")
	if doctorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor ID not found in context"})
		return "", false
	}
	return doctorID, true
}

// GetDoctorHandler handles GET /doctors/me.
func (h *DoctorHandler) GetDoctorHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	doctorRec, err := h.Service.GetDoctorByID(doctorID)
	if err != nil {
		logger.Error("Doctor not found", zap.String("id", doctorID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doctorRec)
}

// UpdateDoctorHandler handles PUT /doctors/me.
func (h *DoctorHandler) UpdateDoctorHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	var req models.DoctorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = doctorID

	updated, err := h.Service.UpdateDoctor(req)
	if err != nil {
		logger.Error("Failed to update doctor", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateDoctorPasswordHandler handles PUT /doctors/me/password.
func (h *DoctorHandler) UpdateDoctorPasswordHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
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

	if err := h.Service.UpdatePassword(doctorID, req.CurrentPassword, req.NewPassword, deviceID); err != nil {
		logger.Error("Failed to update doctor password", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated. Other devices have been signed out."})
}

// UploadDoctorAvatarHandler handles POST /doctors/me/avatar (multipart).
func (h *DoctorHandler) UploadDoctorAvatarHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
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

	updated, err := h.Service.UpdateAvatar(doctorID, tempFilePath)
	if err != nil {
		logger.Error("Failed to update doctor avatar", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UploadDoctorDocumentHandler handles POST /doctors/me/documents/:kind where
// kind is diploma or passport. The file is encrypted before leaving the
// server, so only its storage ID is acknowledged.
func (h *DoctorHandler) UploadDoctorDocumentHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	kind := c.Param("kind")
	if kind != "diploma" && kind != "passport" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document kind; allowed values are 'diploma' and 'passport'"})
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

	if kind == "diploma" {
		err = h.Service.UploadDiploma(doctorID, tempFilePath)
	} else {
		err = h.Service.UploadPassport(doctorID, tempFilePath)
	}
	if err != nil {
		logger.Error("Failed to upload verification document",
			zap.String("doctorID", doctorID), zap.String("kind", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": kind + " uploaded successfully"})
}

// DeleteDoctorHandler handles DELETE /doctors/me.
func (h *DoctorHandler) DeleteDoctorHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteDoctor(doctorID); err != nil {
		logger.Error("Delete error", zap.String("id", doctorID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor account deleted"})
}
