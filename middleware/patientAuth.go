package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	patientRepo "medibook/database/repository/patient"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Cached token hashes expire after this sliding window.
const authCacheTTL = 10 * time.Minute

// JWTAuthPatientMiddleware validates a patient's device-bound token. The
// token carries both the account ID and the device ID; its hash must match
// the one stored on that device record. Validated hashes are cached in Redis
// with a sliding TTL so the database is only consulted on cache misses.
func JWTAuthPatientMiddleware(patients patientRepo.PatientRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		patientID, tokenDeviceID, err := utils.ExtractIDsFromToken(tokenString)
		if err != nil || patientID == "" || tokenDeviceID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// The token must belong to the device the request claims to come from.
		ctxDeviceID := c.GetString("deviceID")
		if ctxDeviceID == "" || ctxDeviceID != tokenDeviceID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token does not match device"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + patientID + ":" + tokenDeviceID

		authCache := utils.GetAuthCacheClient()
		if cachedHash, err := authCache.Get(ctx, cacheKey).Result(); err == nil {
			if cachedHash == computedHash {
				if err := authCache.Expire(ctx, cacheKey, authCacheTTL).Err(); err != nil {
					logger.Error("Failed to refresh auth cache TTL", zap.Error(err))
				}
				c.Set("patientID", patientID)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		} else if err != redis.Nil {
			logger.Error("Error checking auth cache", zap.Error(err))
		}

		// Cache miss: validate against the device record.
		proj := bson.M{"id": 1, "devices": 1}
		patientRec, err := patients.GetByIDWithProjection(patientID, proj)
		if err != nil || patientRec == nil {
			logger.Error("Patient not found when validating token", zap.String("patientID", patientID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}

		var deviceTokenHash string
		for _, d := range patientRec.Devices {
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

		c.Set("patientID", patientID)
		c.Next()
	}
}
