// File: services/doctor/directory.go
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	specializationsCacheKey = "specializations:catalog"
	specializationsCacheTTL = 6 * time.Hour
)

// Search returns the public directory cards matching the criteria. Only
// verified doctors are listed.
func (s *DefaultDoctorService) Search(criteria models.DoctorSearchCriteria) ([]models.DoctorCard, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	cards, err := s.Repo.Search(criteria)
	if err != nil {
		utils.GetLogger().Error("Doctor search failed", zap.Error(err))
		return nil, fmt.Errorf("search failed, please try again")
	}
	return cards, nil
}

// ListSpecializations returns the specialization catalog. The catalog changes
// rarely, so it is served from Redis with a database fallback.
func (s *DefaultDoctorService) ListSpecializations() ([]models.Specialization, error) {
	logger := utils.GetLogger()
	cache := utils.GetCacheClient()
	ctx := context.Background()

	if cache != nil {
		data, err := cache.Get(ctx, specializationsCacheKey).Result()
		if err == nil {
			var specs []models.Specialization
			if err := json.Unmarshal([]byte(data), &specs); err == nil {
				return specs, nil
			}
			logger.Warn("Discarding malformed specialization cache entry", zap.Error(err))
		} else if err != redis.Nil {
			logger.Error("Error reading specialization cache", zap.Error(err))
		}
	}

	specs, err := s.Repo.ListSpecializations()
	if err != nil {
		logger.Error("Failed to list specializations", zap.Error(err))
		return nil, fmt.Errorf("failed to list specializations, please try again")
	}

	if cache != nil {
		if b, err := json.Marshal(specs); err == nil {
			if err := cache.Set(ctx, specializationsCacheKey, b, specializationsCacheTTL).Err(); err != nil {
				logger.Error("Failed to cache specializations", zap.Error(err))
			}
		}
	}

	return specs, nil
}
