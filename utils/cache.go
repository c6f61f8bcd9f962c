// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"medibook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (catalog and other read caches).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching and
	// auth-flow sessions.
	AuthCacheClient *redis.Client
	// OTPCacheClient is the dedicated client for one-time passcode records.
	OTPCacheClient *redis.Client
)

// InitRedis initializes every Redis client up front so a bad address fails
// fast at startup instead of on first use.
func InitRedis() {
	InitCache()
	InitAuthCache()
	InitOTPCache()
}

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the Redis client for authorization caching (using DB from AppConfig for auth cache).
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AuthCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// InitOTPCache initializes the Redis client for OTP records (using DB from AppConfig for OTP storage).
func InitOTPCache() {
	OTPCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOTPDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := OTPCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (OTP Cache): %v", err)
	}
}

// GetOTPCacheClient returns the Redis client for OTP records.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		InitOTPCache()
	}
	return OTPCacheClient
}
