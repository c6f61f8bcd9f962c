package handlers

import (
	"errors"
	"time"

	"medibook/models"

	"github.com/gin-gonic/gin"
)

// deviceFromContext assembles the requesting device from the details the
// device middleware stashed in the context.
func deviceFromContext(c *gin.Context) (models.Device, error) {
	deviceID := c.GetString("deviceID")
	deviceName := c.GetString("deviceName")
	if deviceID == "" || deviceName == "" {
		return models.Device{}, errors.New("missing device details")
	}

	return models.Device{
		DeviceID:   deviceID,
		DeviceName: deviceName,
		IP:         c.GetString("deviceIP"),
		Location:   c.GetString("deviceLocation"),
		LastLogin:  time.Now(),
	}, nil
}
