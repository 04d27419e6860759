package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/pkg/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(rdb, logger.NewNopLogger())
	go h.Run(ctx)
	return h
}

func attach(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{Id: uuid.New(), Hub: h, Send: make(chan []byte, buffer)}
	before := h.ClientCount()
	h.register <- c
	require.Eventually(t, func() bool { return h.ClientCount() == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return frame{}
	}
}

func sampleEvent() events.Event {
	return events.ItemsChanged("created", []string{"page-1"}, nil, time.Now())
}

func TestPublishDeliversToLocalClients(t *testing.T) {
	h := startHub(t, nil)
	a := attach(t, h, 4)
	b := attach(t, h, 4)

	require.NoError(t, h.Publish(context.Background(), sampleEvent()))

	for _, c := range []*Client{a, b} {
		f := receive(t, c)
		assert.Equal(t, events.TypeItemsChanged, f.Type)
		assert.Equal(t, "created", f.Data["change"])
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h := startHub(t, nil)
	slow := attach(t, h, 1)
	fast := attach(t, h, 8)

	require.NoError(t, h.Publish(context.Background(), sampleEvent()))
	require.NoError(t, h.Publish(context.Background(), sampleEvent()))

	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	receive(t, fast)
	receive(t, fast)

	// The first message is still buffered, then the channel is closed.
	<-slow.Send
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	h := startHub(t, nil)
	c := attach(t, h, 1)

	h.unregister <- c
	h.unregister <- c
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestClusterRelay(t *testing.T) {
	s := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}

	h1 := startHub(t, newClient())
	h2 := startHub(t, newClient())
	require.Eventually(t, func() bool {
		return s.PubSubNumSub(ClusterChannel)[ClusterChannel] == 2
	}, time.Second, 5*time.Millisecond)

	local := attach(t, h1, 4)
	remote := attach(t, h2, 4)

	require.NoError(t, h1.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, events.TypeItemsChanged, receive(t, local).Type)
	assert.Equal(t, events.TypeItemsChanged, receive(t, remote).Type)

	// The origin hub ignores its own relay.
	select {
	case <-local.Send:
		t.Fatal("origin delivered the event twice")
	case <-time.After(100 * time.Millisecond):
	}
}
