package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IPLocation is the subset of the ip-api.com response we keep.
type IPLocation struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

// geoCache caches lookup results keyed by IP so repeated requests from the
// same client don't re-hit the external API.
var (
	geoCache   = make(map[string]string)
	geoCacheMu sync.RWMutex
)

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	if parsedIP.IsLoopback() {
		return true
	}
	privateIPBlocks := []*net.IPNet{
		{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
		{IP: net.IPv4(172, 16, 0, 0), Mask: net.CIDRMask(12, 32)},
		{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)},
	}
	for _, block := range privateIPBlocks {
		if block.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// lookupIPLocation resolves a human-readable location for the IP,
// best-effort. Private addresses and lookup failures yield "Unknown".
func lookupIPLocation(ip string) string {
	geoCacheMu.RLock()
	if loc, ok := geoCache[ip]; ok {
		geoCacheMu.RUnlock()
		return loc
	}
	geoCacheMu.RUnlock()

	location := "Unknown"
	if !isPrivateIP(ip) {
		url := fmt.Sprintf("http://ip-api.com/json/%s", ip)
		client := &http.Client{Timeout: 5 * time.Second}
		if resp, err := client.Get(url); err == nil {
			defer resp.Body.Close()
			var loc IPLocation
			if err := json.NewDecoder(resp.Body).Decode(&loc); err == nil && loc.Status == "success" {
				location = fmt.Sprintf("%s, %s, %s", loc.City, loc.RegionName, loc.Country)
			}
		}
	}

	geoCacheMu.Lock()
	geoCache[ip] = location
	geoCacheMu.Unlock()
	return location
}

// DeviceDetailsMiddleware requires the device identification headers and
// stashes the device details (with client IP and best-effort location) in the
// request context for the auth flows.
func DeviceDetailsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("X-Device-ID")
		deviceName := c.GetHeader("X-Device-Name")
		if deviceID == "" || deviceName == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Missing required device details: X-Device-ID and X-Device-Name",
			})
			return
		}

		ip := getClientIP(c)

		c.Set("deviceID", deviceID)
		c.Set("deviceName", deviceName)
		c.Set("deviceIP", ip)
		c.Set("deviceLocation", lookupIPLocation(ip))
		c.Next()
	}
}
