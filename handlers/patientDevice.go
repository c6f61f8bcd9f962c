package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPatientDevicesHandler handles GET /patients/me/devices.
func (h *PatientHandler) GetPatientDevicesHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	devices, err := h.Service.GetDevices(patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// SignOutOtherPatientDevicesHandler handles POST /patients/me/devices/signout-others.
func (h *PatientHandler) SignOutOtherPatientDevicesHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}
	deviceID := c.GetString("deviceID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device ID"})
		return
	}

	if err := h.Service.SignOutOtherDevices(patientID, deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out of other devices successfully"})
}

// SignOutPatientHandler handles POST /patients/me/signout. It revokes the
// current device's token.
func (h *PatientHandler) SignOutPatientHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}
	deviceID := c.GetString("deviceID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device ID"})
		return
	}

	if err := h.Service.RevokeAuthToken(patientID, deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}
