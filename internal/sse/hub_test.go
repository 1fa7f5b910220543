package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifycenter/internal/center"
	"notifycenter/internal/domain"
	"notifycenter/internal/metrics"
)

func TestHubDeliversCenterChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := center.New()
	hub := NewHub(c, metrics.New(), zap.NewNop())
	go hub.Run(ctx)

	client := NewClient(4)
	hub.Register(client)
	defer hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	id := c.Add("deployed", domain.KindSuccess)
	c.Remove(id)

	expect := []string{center.ChangeAdded, center.ChangeRemoved}
	for _, want := range expect {
		select {
		case got := <-client.Ch:
			require.Equal(t, want, got.Type)
			require.Equal(t, id, got.Notification.ID)
		case <-time.After(time.Second):
			t.Fatalf("expected %s change", want)
		}
	}
}

func TestHubSlowClientKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := center.New()
	hub := NewHub(c, metrics.New(), zap.NewNop())
	go hub.Run(ctx)

	client := NewClient(2)
	require.True(t, hub.Register(client))

	const burst = 20
	for i := 0; i < burst; i++ {
		c.Add("burst", "")
	}

	// the client never reads during the burst; its buffer must end on the last change
	var last center.Change
	require.Eventually(t, func() bool {
		for {
			select {
			case got := <-client.Ch:
				last = got
			default:
				return last.Version == burst
			}
		}
	}, time.Second, 5*time.Millisecond)
	require.Len(t, last.Snapshot, burst)
}

func TestHubBroadcastWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub(center.New(), metrics.New(), zap.NewNop())
	for i := 1; i <= 100; i++ {
		hub.Broadcast(center.Change{Version: uint64(i)})
	}

	var versions []uint64
	for len(hub.broadcast) > 0 {
		versions = append(versions, (<-hub.broadcast).Version)
	}
	require.Len(t, versions, cap(hub.broadcast))
	require.Equal(t, uint64(100), versions[len(versions)-1])
}

func TestHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(center.New(), metrics.New(), zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(1)
	require.True(t, hub.Register(client))
	cancel()
	<-stopped

	hub.Unregister(client)
	require.False(t, hub.Register(NewClient(1)))
	select {
	case <-hub.Done():
	default:
		t.Fatal("done not closed after Run returned")
	}
}
