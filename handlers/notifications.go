package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 50

// ListPatientNotificationsHandler handles GET /patients/me/notifications.
func (h *PatientHandler) ListPatientNotificationsHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := h.Notifications.ListUserNotifications(patientID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ListDoctorNotificationsHandler handles GET /doctors/me/notifications.
func (h *DoctorHandler) ListDoctorNotificationsHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := h.Notifications.ListUserNotifications(doctorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
