package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medibook/models"
	"medibook/services/appointment"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves the scheduling surface for both roles.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler instance.
func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// writeSchedulingError maps scheduling failures onto HTTP statuses: unknown
// appointment 404, foreign appointment 403, wrong lifecycle state 409,
// invalid input 400, anything else 500.
func writeSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, appointment.ErrNotYourAppointment):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotOpen), errors.Is(err, models.ErrNotReserved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, appointment.ErrInvalidSlotTimes),
		errors.Is(err, appointment.ErrDoctorRequired),
		errors.Is(err, appointment.ErrFromRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateSlotHandler handles POST /doctors/me/appointments.
func (h *AppointmentHandler) CreateSlotHandler(c *gin.Context) {
	logger := utils.GetLogger()
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	var req models.AppointmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid slot creation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	appt, err := h.Service.CreateSlot(doctorID, req)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// DeleteSlotHandler handles DELETE /doctors/me/appointments/:id.
func (h *AppointmentHandler) DeleteSlotHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteSlot(doctorID, c.Param("id")); err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

// CancelAppointmentHandler handles POST /doctors/me/appointments/:id/cancel.
func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Service.Cancel(doctorID, c.Param("id")); err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment canceled"})
}

// ListHistoryHandler handles GET /doctors/me/appointments. Query parameters:
// patientName (substring), from/till (RFC 3339), statuses (comma-separated),
// page, pageSize.
func (h *AppointmentHandler) ListHistoryHandler(c *gin.Context) {
	doctorID, ok := doctorIDFromContext(c)
	if !ok {
		return
	}

	filter := models.HistoryFilter{
		PatientName: c.Query("patientName"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp; expected RFC 3339"})
			return
		}
		filter.From = &from
	}
	if tillStr := c.Query("till"); tillStr != "" {
		till, err := time.Parse(time.RFC3339, tillStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'till' timestamp; expected RFC 3339"})
			return
		}
		filter.Till = &till
	}

	if statusesStr := c.Query("statuses"); statusesStr != "" {
		for _, s := range strings.Split(statusesStr, ",") {
			status := models.AppointmentStatus(strings.TrimSpace(s))
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + string(status)})
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	page, err := h.Service.ListHistory(doctorID, filter)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAvailableHandler handles GET /appointments/available. Query parameters:
// doctorId (required), from (required, RFC 3339), till (optional).
func (h *AppointmentHandler) ListAvailableHandler(c *gin.Context) {
	if _, ok := patientIDFromContext(c); !ok {
		return
	}

	filter := models.AvailableFilter{
		DoctorID: c.Query("doctorId"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp; expected RFC 3339"})
			return
		}
		filter.From = from
	}
	if tillStr := c.Query("till"); tillStr != "" {
		till, err := time.Parse(time.RFC3339, tillStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'till' timestamp; expected RFC 3339"})
			return
		}
		filter.Till = &till
	}

	slots, err := h.Service.ListAvailable(filter)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": slots})
}

// SubscribeHandler handles POST /appointments/:id/subscribe. The optional
// body field shareInfo controls whether the doctor sees the patient's
// details.
func (h *AppointmentHandler) SubscribeHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		ShareInfo bool `json:"shareInfo"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	appt, err := h.Service.Subscribe(patientID, c.Param("id"), req.ShareInfo)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UnsubscribeHandler handles POST /appointments/:id/unsubscribe.
func (h *AppointmentHandler) UnsubscribeHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	if err := h.Service.Unsubscribe(patientID, c.Param("id")); err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation withdrawn"})
}

// ListReservationsHandler handles GET /patients/me/reservations.
func (h *AppointmentHandler) ListReservationsHandler(c *gin.Context) {
	patientID, ok := patientIDFromContext(c)
	if !ok {
		return
	}

	reservations, err := h.Service.ListReservations(patientID)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": reservations})
}
