package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_EvictsOldest(t *testing.T) {
	q := newMemoryQueue(3)
	defer func() { _ = q.Close() }()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Publish(context.Background(), "analytics.trend.completed", []byte(fmt.Sprint(i))))
	}

	assert.Equal(t, 3, q.Len())
	recent := q.Recent("", 0)
	require.Len(t, recent, 3)
	assert.Equal(t, "2", string(recent[0].Data))
	assert.Equal(t, "4", string(recent[2].Data))
}

func TestMemoryQueue_DefaultCapacity(t *testing.T) {
	q := newMemoryQueue(0)
	assert.Equal(t, DefaultMemoryCapacity, q.capacity)
}

func TestMemoryQueue_RecentFilters(t *testing.T) {
	q := newMemoryQueue(10)
	defer func() { _ = q.Close() }()
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, "a", []byte("1")))
	require.NoError(t, q.Publish(ctx, "b", []byte("2")))
	require.NoError(t, q.Publish(ctx, "a", []byte("3")))
	require.NoError(t, q.Publish(ctx, "a", []byte("4")))

	latest := q.Recent("a", 2)
	require.Len(t, latest, 2)
	assert.Equal(t, "3", string(latest[0].Data))
	assert.Equal(t, "4", string(latest[1].Data))
	assert.Empty(t, q.Recent("c", 0))
}

func TestMemoryQueue_CopiesMessage(t *testing.T) {
	q := newMemoryQueue(10)
	defer func() { _ = q.Close() }()

	data := []byte("abc")
	headers := map[string]string{"kind": "trend"}
	require.NoError(t, q.PublishMessage(context.Background(), Message{Subject: "a", Data: data, Headers: headers}))
	data[0] = 'z'
	headers["kind"] = "changed"

	got := q.Recent("a", 1)[0]
	assert.Equal(t, "abc", string(got.Data))
	assert.Equal(t, "trend", got.Headers["kind"])
}

func TestMemoryQueue_Listeners(t *testing.T) {
	q := newMemoryQueue(10)
	defer func() { _ = q.Close() }()

	var seen []string
	require.NoError(t, q.Listen("a", func(msg Message) error {
		seen = append(seen, string(msg.Data))
		return nil
	}))
	require.NoError(t, q.Listen("a", func(Message) error { return errors.New("listener down") }))

	err := q.Publish(context.Background(), "a", []byte("x"))
	assert.EqualError(t, err, "listener down")
	assert.Equal(t, []string{"x"}, seen)
	assert.Equal(t, 1, q.Len())

	require.NoError(t, q.Publish(context.Background(), "b", []byte("y")))
	assert.Equal(t, []string{"x"}, seen)
}

func TestMemoryQueue_CancelledContext(t *testing.T) {
	q := newMemoryQueue(10)
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Publish(ctx, "a", []byte("x")), context.Canceled)
	assert.Zero(t, q.Len())
}

func TestMemoryQueue_Close(t *testing.T) {
	q := newMemoryQueue(10)
	require.NoError(t, q.Publish(context.Background(), "a", []byte("x")))

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.Zero(t, q.Len())
	assert.Error(t, q.Publish(context.Background(), "a", []byte("x")))
	assert.Error(t, q.Listen("a", func(Message) error { return nil }))
}
