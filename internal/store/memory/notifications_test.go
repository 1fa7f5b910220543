package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifycenter/internal/model"
)

func TestStoreRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := New(zap.NewNop())

	for i := int64(0); i < 3; i++ {
		entry, err := store.Record(ctx, model.HistoryEntry{
			NotificationID: i,
			Event:          model.HistoryEventAdded,
			Message:        "msg",
			Kind:           "info",
		})
		require.NoError(t, err)
		require.Equal(t, i+1, entry.ID)
		require.False(t, entry.RecordedAt.IsZero())
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(2), all[0].NotificationID)
	require.Equal(t, int64(0), all[2].NotificationID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, int64(3), limited[0].ID)
}
