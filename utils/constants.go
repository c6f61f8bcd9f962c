// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 72 * time.Hour

// Cloudinary folders accepted by the upload endpoints.
const (
	BucketAvatars   = "avatars"
	BucketDiplomas  = "diplomas"
	BucketPassports = "passports"
)
