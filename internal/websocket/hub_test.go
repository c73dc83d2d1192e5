package websocket

import (
	"context"
	"testing"
	"time"

	"capsule-labeling-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClient(hub, nil, "alice")
	b := NewClient(hub, nil, "bob")
	require.True(t, hub.join(a))
	require.True(t, hub.join(b))
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast([]byte(`{"type":"LABELS_COMMITTED"}`))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"LABELS_COMMITTED"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatalf("%s received nothing", c.Annotator)
		}
	}
}

func TestSlowClientIsDisconnected(t *testing.T) {
	hub, _ := startHub(t)

	slow := &Client{Hub: hub, Annotator: "slow", Send: make(chan []byte, 1)}
	require.True(t, hub.join(slow))
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast([]byte("1"))
	hub.Broadcast([]byte("2"))

	assert.Equal(t, 0, hub.Count())
	assert.Equal(t, "1", string(<-slow.Send))
	_, open := <-slow.Send
	assert.False(t, open)

	hub.leave(slow)
	assert.Equal(t, 0, hub.Count())
}

func TestRunClosesClientsOnCancel(t *testing.T) {
	hub, cancel := startHub(t)

	c := NewClient(hub, nil, "alice")
	require.True(t, hub.join(c))
	cancel()

	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	assert.False(t, hub.join(NewClient(hub, nil, "late")))
}
