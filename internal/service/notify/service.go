package notify

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/config"
	"notifycenter/internal/dismiss"
	"notifycenter/internal/domain"
	"notifycenter/internal/metrics"
	"notifycenter/internal/model"
	"notifycenter/internal/repository"
)

const (
	archiveTimeout = 5 * time.Second
	archiveBuffer  = 256
)

type AddRequest struct {
	Message string
	Kind    string
	// DismissAfterMS overrides the configured auto-dismiss delay. Nil keeps the
	// default, zero disables auto-dismiss for this notification.
	DismissAfterMS *int64
}

type Service struct {
	center      *center.Center
	store       repository.HistoryRepository
	dismiss     *dismiss.Scheduler
	metrics     *metrics.Metrics
	log         *zap.Logger
	tracer      trace.Tracer
	autoDismiss time.Duration
	unsubscribe func()

	archive   chan model.HistoryEntry
	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewService(cfg *config.Config, c *center.Center, store repository.HistoryRepository, scheduler *dismiss.Scheduler, m *metrics.Metrics, logger *zap.Logger) *Service {
	s := &Service{
		center:      c,
		store:       store,
		dismiss:     scheduler,
		metrics:     m,
		log:         logger,
		tracer:      otel.Tracer("notify"),
		autoDismiss: cfg.AutoDismiss,
		archive:     make(chan model.HistoryEntry, archiveBuffer),
		stop:        make(chan struct{}),
	}
	s.wg.Add(1)
	go s.archiveLoop()
	s.unsubscribe = c.Subscribe(s.onChange)
	return s
}

func (s *Service) Add(ctx context.Context, req AddRequest) (model.Notification, error) {
	_, span := s.tracer.Start(ctx, "notify.add")
	defer span.End()

	delay := s.autoDismiss
	if req.DismissAfterMS != nil {
		d, err := domain.DismissDelay(*req.DismissAfterMS)
		if err != nil {
			span.RecordError(err)
			return model.Notification{}, err
		}
		delay = d
	}

	created := s.center.Push(req.Message, req.Kind)
	span.SetAttributes(
		attribute.Int64("notification.id", created.ID),
		attribute.String("notification.kind", created.Kind),
	)
	if delay > 0 {
		s.dismiss.Schedule(created.ID, delay)
		// a removal between Push and Schedule already ran its Cancel
		if _, ok := s.center.Get(created.ID); !ok {
			s.dismiss.Cancel(created.ID)
		}
		s.metrics.DismissPending.Set(float64(s.dismiss.Pending()))
	}
	return created, nil
}

// Remove dismisses a notification. Unknown ids are a no-op.
func (s *Service) Remove(ctx context.Context, id int64) bool {
	_, span := s.tracer.Start(ctx, "notify.remove")
	defer span.End()
	span.SetAttributes(attribute.Int64("notification.id", id))

	removed := s.center.Remove(id)
	span.SetAttributes(attribute.Bool("notification.removed", removed))
	return removed
}

func (s *Service) List(_ context.Context) []model.Notification {
	return s.center.List()
}

// Snapshot returns the live notifications and the version they reflect, so a
// stream can skip changes it has already seen.
func (s *Service) Snapshot() ([]model.Notification, uint64) {
	return s.center.Snapshot()
}

func (s *Service) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	history, err := s.store.List(ctx, limit)
	if err != nil {
		s.log.Error("store list history failed", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return history, nil
}

// Close detaches the service from the center, disarms pending timers and
// flushes queued history writes. It is safe to call more than once.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.dismiss.Stop()
		close(s.stop)
		s.wg.Wait()
	})
}

func (s *Service) onChange(change center.Change) {
	n := change.Notification
	event := model.HistoryEventAdded
	switch change.Type {
	case center.ChangeAdded:
		s.metrics.Added.WithLabelValues(n.Kind).Inc()
	case center.ChangeRemoved:
		s.metrics.Removed.WithLabelValues(n.Kind, change.Reason).Inc()
		s.dismiss.Cancel(n.ID)
		s.metrics.DismissPending.Set(float64(s.dismiss.Pending()))
		event = model.HistoryEventRemoved
		if change.Reason == center.ReasonEvicted {
			event = model.HistoryEventEvicted
		}
	}
	s.metrics.Active.Set(float64(len(change.Snapshot)))

	entry := model.HistoryEntry{
		NotificationID: n.ID,
		Event:          event,
		Message:        n.Message,
		Kind:           n.Kind,
		CreatedAt:      n.CreatedAt,
	}
	select {
	case s.archive <- entry:
	default:
		s.metrics.ArchiveErrors.Inc()
		s.log.Warn("archive queue full, entry dropped",
			zap.Int64("id", n.ID),
			zap.String("event", event),
		)
	}
}

func (s *Service) archiveLoop() {
	defer s.wg.Done()
	for {
		select {
		case entry := <-s.archive:
			s.record(entry)
		case <-s.stop:
			for {
				select {
				case entry := <-s.archive:
					s.record(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) record(entry model.HistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if _, err := s.store.Record(ctx, entry); err != nil {
		s.metrics.ArchiveErrors.Inc()
		s.log.Error("archive notification failed",
			zap.Int64("id", entry.NotificationID),
			zap.String("event", entry.Event),
			zap.Error(err),
		)
	}
}
