package model

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	HistoryEventAdded   = "added"
	HistoryEventRemoved = "removed"
	HistoryEventEvicted = "evicted"
)

// HistoryEntry is one archived lifecycle event of a notification.
type HistoryEntry struct {
	ID             int64     `json:"id"`
	NotificationID int64     `json:"notification_id"`
	Event          string    `json:"event"`
	Message        string    `json:"message"`
	Kind           string    `json:"kind"`
	CreatedAt      time.Time `json:"created_at"`
	RecordedAt     time.Time `json:"recorded_at"`
}
