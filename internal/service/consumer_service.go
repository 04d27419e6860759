package service

import (
	"context"
	"encoding/json"

	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventSink receives every workspace event. The websocket hub and the NATS publisher are sinks.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sinks     []EventSink
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	logger logger.ILogger,
	sinks ...EventSink,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sinks:     sinks,
		logger:    logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage fans one event out to every sink. Sink failures are logged and the
// message is still acked.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var body eventMessage
	if err := json.Unmarshal(msg.Payload, &body); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		msg.Ack()
		return
	}

	event := events.BaseEvent{Type: body.Type, Data: body.Data, OccurredAt: body.OccurredAt}
	for _, sink := range cs.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Event sink failed", map[string]interface{}{
				"error": err.Error(),
				"type":  body.Type,
			})
		}
	}

	cs.logger.Debug("CONSUMER", "Event dispatched", map[string]interface{}{"type": body.Type, "sinks": len(cs.sinks)})
	msg.Ack()
}
