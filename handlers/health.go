package handlers

import (
	"net/http"

	"medibook/database"
	"medibook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness of Mongo and the Redis clients.
func HealthHandler(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), database.MongoClient,
		utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetOTPCacheClient())

	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	for _, ok := range status.Redis {
		if !ok {
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, status)
}
