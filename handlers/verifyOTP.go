package handlers

import (
	"strings"

	"medibook/utils"

	"github.com/gin-gonic/gin"
)

// VerifyOTPHandler verifies the OTP and updates the auth session. It serves
// both the unknown-device sign-in check and the password reset flow; the
// session ID carries the account and the OTP purpose as "account:purpose".
func VerifyOTPHandler(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionID" binding:"required"`
		OTP       string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	parts := strings.Split(req.SessionID, ":")
	if len(parts) != 2 {
		c.JSON(400, gin.H{"error": "Invalid session ID format"})
		return
	}
	accountID := parts[0]
	purpose := parts[1]
	if err := utils.VerifyOTPRecord(accountID, purpose, req.OTP); err != nil {
		c.JSON(401, gin.H{"error": err.Error()})
		return
	}

	sessionClient := utils.GetAuthCacheClient()
	authSession, err := utils.GetAuthSession(sessionClient, req.SessionID)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to retrieve auth session"})
		return
	}

	authSession.Status = "otp_verified"
	if err := utils.SaveAuthSession(sessionClient, req.SessionID, *authSession); err != nil {
		c.JSON(500, gin.H{"error": "Failed to update auth session"})
		return
	}

	c.JSON(200, gin.H{"message": "OTP verified successfully", "sessionID": req.SessionID})
}
