package models

import "time"

// TokenRecord is the value stored at deviceTokens/{accountId}/{deviceToken}.
// The token string itself is the key, not part of the value.
type TokenRecord struct {
	DeviceInfo  string    `json:"deviceInfo"`
	LastUpdated time.Time `json:"lastUpdated"`
}
