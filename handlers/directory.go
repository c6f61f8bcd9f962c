package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchDoctorsHandler handles GET /doctors, the public directory. Filters
// arrive as query parameters bound onto DoctorSearchCriteria.
func (h *DoctorHandler) SearchDoctorsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var criteria models.DoctorSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		logger.Error("Invalid doctor search query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	doctors, err := h.Service.Search(criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// ListSpecializationsHandler handles GET /specializations.
func (h *DoctorHandler) ListSpecializationsHandler(c *gin.Context) {
	specializations, err := h.Service.ListSpecializations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"specializations": specializations})
}
