package models

import "time"

// Notification is one entry of an account's notification history, stored at
// notifications/{accountId}/{notificationId}. Immutable once written; IsRead is
// persisted as false and nothing in this service ever flips it.
type Notification struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	TargetActivity string            `json:"targetActivity"`
	ExtraData      map[string]string `json:"extraData,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	IsRead         bool              `json:"isRead"`
}
