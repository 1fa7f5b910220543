package memory

import (
	"context"
	"time"

	"notifycenter/internal/model"
)

func (s *Store) Record(_ context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}
	s.records = append(s.records, entry)
	return entry, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.HistoryEntry
	for i := len(s.records) - 1; i >= 0; i-- {
		result = append(result, s.records[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
