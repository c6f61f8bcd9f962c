package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDoctorDevicesHandler handles GET /doctors/me/devices.
func (h *DoctorHandler) GetDoctorDevicesHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	devices, err := h.Service.GetDevices(doctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// SignOutOtherDoctorDevicesHandler handles POST /doctors/me/devices/signout-others.
func (h *DoctorHandler) SignOutOtherDoctorDevicesHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}
	deviceID := c.GetString("deviceID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device ID"})
		return
	}

	if err := h.Service.SignOutOtherDevices(doctorID, deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out of other devices successfully"})
}

// SignOutDoctorHandler handles POST /doctors/me/signout.
func (h *DoctorHandler) SignOutDoctorHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}
	deviceID := c.GetString("deviceID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device ID"})
		return
	}

	if err := h.Service.RevokeAuthToken(doctorID, deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}
