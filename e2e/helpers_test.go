package e2e

import (
	"bufio"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/config"
	"notifycenter/internal/dismiss"
	httpserver "notifycenter/internal/http"
	"notifycenter/internal/http/controller"
	"notifycenter/internal/metrics"
	"notifycenter/internal/queue"
	"notifycenter/internal/service/notify"
	"notifycenter/internal/sse"
	"notifycenter/internal/store/memory"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []byte, string) error {
	return nil
}

type stack struct {
	server *httptest.Server
	center *center.Center
	svc    *notify.Service
}

// startStack wires the real router, service and hub behind an httptest server.
func startStack(t *testing.T, cfg *config.Config, publisher queue.Publisher) stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg.SSEHeartbeat == 0 {
		cfg.SSEHeartbeat = 5 * time.Second
	}
	if cfg.OTELServiceName == "" {
		cfg.OTELServiceName = "notifycenter-e2e"
	}
	logger := zap.NewNop()
	c := center.New(center.WithMaxActive(cfg.MaxActive))
	m := metrics.New()
	svc := notify.NewService(cfg, c, memory.New(logger), dismiss.New(c, logger), m, logger)
	hub := sse.NewHub(c, m, logger)
	handler := controller.NewHandler(cfg, svc, hub, logger, publisher)
	router := httpserver.NewRouter(cfg, handler, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.CloseClientConnections()
		server.Close()
		cancel()
		svc.Close()
	})
	return stack{server: server, center: c, svc: svc}
}

type sseEvent struct {
	id    string
	event string
	data  string
}

type sseReader struct {
	events chan sseEvent
	errs   chan error
}

func newSSEReader(body io.Reader) *sseReader {
	r := &sseReader{events: make(chan sseEvent, 16), errs: make(chan error, 1)}
	go func() {
		reader := bufio.NewReader(body)
		var current sseEvent
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				r.errs <- err
				return
			}
			line = strings.TrimRight(line, "\r\n")
			switch {
			case line == "":
				if len(dataLines) > 0 {
					current.data = strings.Join(dataLines, "\n")
					r.events <- current
				}
				current = sseEvent{}
				dataLines = nil
			case strings.HasPrefix(line, ":"):
			case strings.HasPrefix(line, "id:"):
				current.id = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
			case strings.HasPrefix(line, "event:"):
				current.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()
	return r
}

func (r *sseReader) next(timeout time.Duration) (sseEvent, error) {
	select {
	case ev := <-r.events:
		return ev, nil
	case err := <-r.errs:
		return sseEvent{}, err
	case <-time.After(timeout):
		return sseEvent{}, context.DeadlineExceeded
	}
}
