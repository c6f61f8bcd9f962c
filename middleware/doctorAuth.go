package middleware

import (
	"context"
	"net/http"
	"strings"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// JWTAuthDoctorMiddleware validates a doctor's device-bound token, mirroring
// the patient variant: hash check against the device record with a
// sliding-TTL Redis cache in front.
func JWTAuthDoctorMiddleware(doctors doctorRepo.DoctorRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		doctorID, tokenDeviceID, err := utils.ExtractIDsFromToken(tokenString)
		if err != nil || doctorID == "" || tokenDeviceID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		ctxDeviceID := c.GetString("deviceID")
		if ctxDeviceID == "" || ctxDeviceID != tokenDeviceID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token does not match device"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + doctorID + ":" + tokenDeviceID

		authCache := utils.GetAuthCacheClient()
		if cachedHash, err := authCache.Get(ctx, cacheKey).Result(); err == nil {
			if cachedHash == computedHash {
				if err := authCache.Expire(ctx, cacheKey, authCacheTTL).Err(); err != nil {
					logger.Error("Failed to refresh auth cache TTL", zap.Error(err))
				}
				c.Set("doctorID", doctorID)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		} else if err != redis.Nil {
			logger.Error("Error checking auth cache", zap.Error(err))
		}

		proj := bson.M{"id": 1, "devices": 1}
		doctorRec, err := doctors.GetByIDWithProjection(doctorID, proj)
		if err != nil || doctorRec == nil {
			logger.Error("Doctor not found when validating token", zap.String("doctorID", doctorID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}

		var deviceTokenHash string
		for _, d := range doctorRec.Devices {
			if d.DeviceID == tokenDeviceID {
				deviceTokenHash = d.TokenHash
				break
			}
		}
		if deviceTokenHash == "" || deviceTokenHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}

		if err := authCache.Set(ctx, cacheKey, computedHash, authCacheTTL).Err(); err != nil {
			logger.Error("Failed to set auth cache", zap.Error(err))
		}

		c.Set("doctorID", doctorID)
		c.Next()
	}
}
