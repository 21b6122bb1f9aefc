package service

import (
	"context"
	"encoding/json"

	"techgear-support-be/internal/dto"
	"techgear-support-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishEvent(ctx context.Context, event events.Event) error
	PublishKnowledgeChunks(ctx context.Context, msg *dto.PublishKnowledgeChunksMessage) error
}

type publisherService struct {
	publisher       message.Publisher
	ingestTopic     string
	escalationTopic string
}

func NewPublisherService(publisher message.Publisher, ingestTopic, escalationTopic string) IPublisherService {
	return &publisherService{
		publisher:       publisher,
		ingestTopic:     ingestTopic,
		escalationTopic: escalationTopic,
	}
}

func (ps *publisherService) PublishEvent(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}
	return ps.publish(ctx, ps.escalationTopic, payload)
}

func (ps *publisherService) PublishKnowledgeChunks(ctx context.Context, msg *dto.PublishKnowledgeChunksMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ps.publish(ctx, ps.ingestTopic, payload)
}

func (ps *publisherService) publish(ctx context.Context, topic string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.publisher.Publish(topic, msg)
}
