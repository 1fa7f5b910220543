package mysql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"notifycenter/internal/model"
)

const (
	insertHistory = `INSERT INTO notification_history
  (notification_id, event, message, kind, created_at, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`

	listHistory = `SELECT id, notification_id, event, message, kind, created_at, recorded_at
FROM notification_history
ORDER BY id DESC
LIMIT ?`

	// MySQL has no "no limit" literal
	maxListLimit = 1<<31 - 1
)

func (s *Store) Record(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	result, err := s.db.ExecContext(ctx, insertHistory,
		entry.NotificationID,
		entry.Event,
		entry.Message,
		entry.Kind,
		entry.CreatedAt,
		entry.RecordedAt,
	)
	if err != nil {
		s.log.Error("sql record history failed",
			zap.Int64("notification_id", entry.NotificationID),
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return model.HistoryEntry{}, fmt.Errorf("insert history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.log.Error("sql last insert id failed", zap.Error(err))
		return model.HistoryEntry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = maxListLimit
	}
	rows, err := s.db.QueryContext(ctx, listHistory, limit)
	if err != nil {
		s.log.Error("sql list history failed", zap.Int("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.NotificationID,
			&entry.Event,
			&entry.Message,
			&entry.Kind,
			&entry.CreatedAt,
			&entry.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return result, nil
}
