package queue

import "context"

type Consumer interface {
	Start(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// Message is the wire payload for notifications carried over the broker.
type Message struct {
	Message        string `json:"message"`
	Kind           string `json:"kind,omitempty"`
	DismissAfterMS *int64 `json:"dismiss_after_ms,omitempty"`
}
