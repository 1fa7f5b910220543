//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifycenter/internal/domain"
	"notifycenter/internal/queue"
)

func TestPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	amqpURL, cleanup := setupRabbitMQContainer(t, ctx)
	defer cleanup()

	cfg := testConfig(amqpURL)
	publisher := NewPublisher(cfg, zap.NewNop())

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.ExchangeDeclare(cfg.RabbitExchange, "topic", true, false, false, false, nil))
	_, err = ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(cfg.RabbitQueue, cfg.RabbitRoutingKey, cfg.RabbitExchange, false, nil))

	deliveries, err := ch.Consume(cfg.RabbitQueue, "publisher-test", true, false, false, false, nil)
	require.NoError(t, err)

	body, err := json.Marshal(queue.Message{Message: "Saved", Kind: domain.KindSuccess})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, body, "notification."+domain.KindSuccess))

	select {
	case msg := <-deliveries:
		var got queue.Message
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		require.Equal(t, "Saved", got.Message)
		require.Equal(t, domain.KindSuccess, got.Kind)
		require.Equal(t, "notification."+domain.KindSuccess, msg.RoutingKey)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for published message")
	}
}
