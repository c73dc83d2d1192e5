// FILE: internal/service/publisher_service.go
package service

import (
	"context"

	"capsule-labeling-be/internal/pkg/logger"
	"capsule-labeling-be/pkg/events"
	pktNats "capsule-labeling-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, evt events.Event) error
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	natsPub   *pktNats.Publisher
	logger    logger.ILogger
}

// NewPublisherService publishes to the in-process bus and, when natsPub is
// not nil, mirrors every event to JetStream.
func NewPublisherService(topicName string, pubSub message.Publisher, natsPub *pktNats.Publisher, logger logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		natsPub:   natsPub,
		logger:    logger,
	}
}

func (ps *publisherService) Publish(ctx context.Context, evt events.Event) error {
	payload, err := events.Marshal(evt)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return err
	}

	// NATS is auxiliary; a failure there never fails the request.
	if ps.natsPub != nil {
		if err := ps.natsPub.Publish(ctx, evt); err != nil {
			ps.logger.Warn("EVENTS", "Failed to publish event to NATS", map[string]interface{}{
				"event": evt.EventType(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
