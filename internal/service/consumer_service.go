// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"time"

	"capsule-labeling-be/internal/pkg/logger"
	"capsule-labeling-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const auditModule = "AUDIT"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// IEventFeed receives each event envelope once it is audited.
type IEventFeed interface {
	Broadcast(data []byte)
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	auditLogger logger.ILogger
	feed        IEventFeed
	logger      logger.ILogger
}

// NewConsumerService writes every labeling event to the audit log and then
// forwards it to feed. feed may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	feed IEventFeed,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		auditLogger: auditLogger,
		feed:        feed,
		logger:      logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	evt, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := make(map[string]interface{}, len(evt.Data)+1)
	for k, v := range evt.Data {
		details[k] = v
	}
	details["occurred_at"] = evt.OccurredAt.Format(time.RFC3339)

	cs.auditLogger.Info(auditModule, evt.Type, details)
	if cs.feed != nil {
		cs.feed.Broadcast(msg.Payload)
	}
	msg.Ack()
}
