// File: medibook/handlers/admin.go
package handlers

import (
	"net/http"

	"medibook/services/doctor"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Doctors doctor.DoctorService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ds doctor.DoctorService) *AdminHandler {
	return &AdminHandler{Doctors: ds}
}

// ListPendingDoctorsHandler returns doctors awaiting credential review.
func (ah *AdminHandler) ListPendingDoctorsHandler(c *gin.Context) {
	doctors, err := ah.Doctors.ListPendingVerification()
	if err != nil {
		zap.L().Error("Failed to fetch pending doctors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending doctors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// ApproveDoctorHandler marks a doctor's credentials as verified.
func (ah *AdminHandler) ApproveDoctorHandler(c *gin.Context) {
	doctorID := c.Param("id")
	if err := ah.Doctors.ApproveDoctor(doctorID); err != nil {
		zap.L().Error("Failed to approve doctor", zap.String("doctorID", doctorID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor approved"})
}

// GetDoctorDocumentsHandler returns short-lived download links for a
// doctor's verification documents.
func (ah *AdminHandler) GetDoctorDocumentsHandler(c *gin.Context) {
	doctorID := c.Param("id")
	docs, err := ah.Doctors.GetVerificationDocuments(doctorID)
	if err != nil {
		zap.L().Error("Failed to fetch doctor documents", zap.String("doctorID", doctorID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}
