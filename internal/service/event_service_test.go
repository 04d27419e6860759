package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) received() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.events...)
}

func TestEventsReachEverySink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	failing := &recordingSink{err: errors.New("nats down")}
	ok := &recordingSink{}
	consumer := NewConsumerService(pubSub, "events", logger.NewNopLogger(), failing, ok)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("events", pubSub)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Publish(ctx, events.PlanCreated("plan-1", 3, at)))
	require.NoError(t, publisher.Publish(ctx, events.PlanApplied("plan-1", 1, 2, 0, at)))

	require.Eventually(t, func() bool { return len(ok.received()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Len(t, failing.received(), 2)

	first := ok.received()[0]
	assert.Equal(t, events.TypePlanCreated, first.EventType())
	assert.Equal(t, "plan-1", first.Payload()["planId"])
	assert.True(t, at.Equal(first.Timestamp()))
}
