// Package dismiss removes notifications after a caller-chosen delay. The
// center never expires anything on its own; this is the timer a caller owns.
package dismiss

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Remover interface {
	Remove(id int64) bool
}

type armed struct {
	timer *time.Timer
	seq   uint64
}

type Scheduler struct {
	mu      sync.Mutex
	timers  map[int64]armed
	seq     uint64
	remover Remover
	log     *zap.Logger
	stopped bool
}

func New(remover Remover, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		timers:  make(map[int64]armed),
		remover: remover,
		log:     logger,
	}
}

// Schedule removes id after the delay, replacing any timer already armed for
// it. A non-positive delay does nothing.
func (s *Scheduler) Schedule(id int64, after time.Duration) {
	if after <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if existing, ok := s.timers[id]; ok {
		existing.timer.Stop()
	}
	s.seq++
	seq := s.seq
	timer := time.AfterFunc(after, func() {
		s.fire(id, seq)
	})
	s.timers[id] = armed{timer: timer, seq: seq}
}

// Cancel disarms the timer for id, reporting whether one was pending.
func (s *Scheduler) Cancel(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.timers[id]
	if !ok {
		return false
	}
	existing.timer.Stop()
	delete(s.timers, id)
	return true
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop disarms every timer. Later calls to Schedule are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, existing := range s.timers {
		existing.timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(id int64, seq uint64) {
	s.mu.Lock()
	if current, ok := s.timers[id]; !ok || current.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	if s.remover.Remove(id) {
		s.log.Debug("notification auto-dismissed", zap.Int64("id", id))
	}
}
