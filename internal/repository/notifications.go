package repository

import (
	"context"

	"notifycenter/internal/model"
)

// HistoryRepository archives notification lifecycle events. It is an audit
// trail only; the live queue is never rebuilt from it.
type HistoryRepository interface {
	Record(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error)
	List(ctx context.Context, limit int) ([]model.HistoryEntry, error)
}
