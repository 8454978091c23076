package journal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_NewestFirstWithFilter(t *testing.T) {
	m := NewMemory(3)
	ctx := context.Background()

	for i, b := range []int64{10, 20, 10, 30} {
		require.NoError(t, m.Record(ctx, Entry{Action: ActionStateChange, BookingID: b, ReservationID: int64(i + 1)}))
	}

	all, err := m.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3, "oldest entry evicted")
	assert.Equal(t, int64(4), all[0].ReservationID)
	assert.NotEqual(t, uuid.Nil, all[0].ID)
	assert.False(t, all[0].OccurredAt.IsZero())

	only10, err := m.List(ctx, Filter{BookingID: 10})
	require.NoError(t, err)
	require.Len(t, only10, 1)
	assert.Equal(t, int64(3), only10[0].ReservationID)

	limited, err := m.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecord_RejectsUnencodableData(t *testing.T) {
	ctx := context.Background()
	bad := Entry{Action: ActionNewBooking, Data: map[string]any{"ch": make(chan int)}}

	err := Insert(ctx, nil, bad)
	require.Error(t, err, "the payload is checked before the row is written")
	assert.Contains(t, err.Error(), "marshal journal data")

	m := NewMemory(2)
	require.Error(t, m.Record(ctx, bad))
	all, err := m.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	s, err := encodeData(Entry{Data: map[string]int{"room": 3}})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.JSONEq(t, `{"room":3}`, *s)

	s, err = encodeData(Entry{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
