package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents the current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// CheckHealth pings Mongo and every Redis client and returns a snapshot.
// Checks run on demand from the health endpoint; there is no background
// monitor.
func CheckHealth(ctx context.Context, mongoClient *mongo.Client, redisClients ...*redis.Client) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	redisHealth := make([]bool, 0, len(redisClients))
	for _, client := range redisClients {
		redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
	}

	return HealthStatus{
		Mongo:     mongoClient.Ping(ctx, nil) == nil,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
}
