// File: services/patient/utils.go
package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RegistrationSessionTTL bounds how long an unfinished registration stays
// resumable.
const RegistrationSessionTTL = 30 * time.Minute

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	var (
		hasMinLen = len(pw) >= 8
		hasUpper  = regexp.MustCompile(`[A-Z]`).MatchString(pw)
		hasLower  = regexp.MustCompile(`[a-z]`).MatchString(pw)
		hasNumber = regexp.MustCompile(`[0-9]`).MatchString(pw)
		hasSymbol = regexp.MustCompile(`[\W_]`).MatchString(pw)
	)
	if !hasMinLen {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !hasUpper {
		return fmt.Errorf("password must include at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must include at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must include at least one number")
	}
	if !hasSymbol {
		return fmt.Errorf("password must include at least one symbol")
	}
	return nil
}

// SaveRegistrationSession saves a registration session to Redis with the given TTL.
func SaveRegistrationSession(client *redis.Client, sessionID string, session models.RegistrationSession, ttl time.Duration) error {
	ctx := context.Background()
	data, err := json.Marshal(session)
	if err != nil {
		utils.GetLogger().Error("Failed to marshal registration session", zap.Error(err))
		return err
	}
	if err := client.Set(ctx, sessionID, data, ttl).Err(); err != nil {
		utils.GetLogger().Error("Failed to save registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	return nil
}

// GetRegistrationSession retrieves a registration session from Redis by sessionID.
func GetRegistrationSession(client *redis.Client, sessionID string) (models.RegistrationSession, error) {
	var session models.RegistrationSession
	ctx := context.Background()
	data, err := client.Get(ctx, sessionID).Result()
	if err != nil {
		utils.GetLogger().Error("Failed to get registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return session, err
	}
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		utils.GetLogger().Error("Failed to unmarshal registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return session, err
	}
	return session, nil
}

// DeleteRegistrationSession removes a registration session from Redis.
func DeleteRegistrationSession(client *redis.Client, sessionID string) error {
	ctx := context.Background()
	if err := client.Del(ctx, sessionID).Err(); err != nil {
		utils.GetLogger().Error("Failed to delete registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	return nil
}
