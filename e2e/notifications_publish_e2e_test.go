//go:build integration

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/config"
	"notifycenter/internal/domain"
	"notifycenter/internal/queue/rabbitmq"
)

func TestPublishFlow(t *testing.T) {
	ctx := context.Background()
	amqpURL, cleanup := setupRabbitMQContainer(t, ctx)
	defer cleanup()

	cfg := &config.Config{
		HTTPAddr:            ":0",
		RabbitMQURL:         amqpURL,
		RabbitExchange:      "notifications",
		RabbitQueue:         "notifications.center",
		RabbitRoutingKey:    "notification.*",
		RabbitConsumerTag:   "center-consumer",
		RabbitPublishPrefix: "notification",
	}

	logger := zap.NewNop()
	st := startStack(t, cfg, rabbitmq.NewPublisher(cfg, logger))
	consumer := rabbitmq.NewConsumer(cfg, st.svc, logger)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()
	require.NoError(t, waitForConsumer(ctx, amqpURL, cfg.RabbitQueue, 5*time.Second))

	sseResp, err := http.Get(st.server.URL + "/sse")
	require.NoError(t, err)
	defer sseResp.Body.Close()
	events := newSSEReader(sseResp.Body)
	_, err = events.next(2 * time.Second)
	require.NoError(t, err)

	postResp := postJSON(t, st.server.URL+"/notifications/publish", map[string]string{
		"message": "Deploy finished",
		"kind":    domain.KindSuccess,
	})
	defer postResp.Body.Close()
	require.Equal(t, http.StatusAccepted, postResp.StatusCode)

	added, err := events.next(5 * time.Second)
	require.NoError(t, err)
	require.Equal(t, center.ChangeAdded, added.event)
	var change center.Change
	require.NoError(t, json.Unmarshal([]byte(added.data), &change))
	require.Equal(t, "Deploy finished", change.Notification.Message)
	require.Equal(t, domain.KindSuccess, change.Notification.Kind)

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

func waitForConsumer(ctx context.Context, amqpURL, queue string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := amqp.Dial(amqpURL)
			if err != nil {
				continue
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				continue
			}
			q, err := ch.QueueInspect(queue)
			_ = ch.Close()
			_ = conn.Close()
			if err == nil && q.Consumers > 0 {
				return nil
			}
		}
	}
}

func setupRabbitMQContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.12-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), func() {
		_ = container.Terminate(ctx)
	}
}
