package models

import "time"

// Device is one signed-in session of an account. An account may hold at
// most MaxDevices concurrent devices; each carries the SHA-256 hash of its
// current access token, so issuing a new token for a device invalidates the
// previous one.
type Device struct {
	DeviceID   string    `bson:"deviceId" json:"deviceId"`
	DeviceName string    `bson:"deviceName" json:"deviceName"`
	IP         string    `bson:"ip" json:"ip"`
	Location   string    `bson:"location" json:"location"`
	LastLogin  time.Time `bson:"lastLogin" json:"lastLogin"`
	Creator    bool      `bson:"creator" json:"creator"`
	TokenHash  string    `bson:"tokenHash" json:"-"`
}

// MaxDevices is the fixed concurrent-session bound per account.
const MaxDevices = 3
