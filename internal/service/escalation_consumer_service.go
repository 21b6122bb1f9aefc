package service

import (
	"context"

	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher forwards an event to an external broker subject.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event events.Event) error
}

// EscalationMailer delivers an escalation to a support inbox.
type EscalationMailer interface {
	SendEscalation(toEmail string, event events.Event) error
}

type IEscalationConsumerService interface {
	Consume(ctx context.Context) error
}

// escalationConsumerService hands escalations off to NATS when connected,
// otherwise mails the support inbox directly.
type escalationConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	broker     EventPublisher
	subject    string
	mailer     EscalationMailer
	inbox      string
	logger     logger.ILogger
}

func NewEscalationConsumerService(
	subscriber message.Subscriber,
	topicName string,
	broker EventPublisher,
	subject string,
	mailer EscalationMailer,
	inbox string,
	logger logger.ILogger,
) IEscalationConsumerService {
	return &escalationConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		broker:     broker,
		subject:    subject,
		mailer:     mailer,
		inbox:      inbox,
		logger:     logger,
	}
}

func (es *escalationConsumerService) Consume(ctx context.Context) error {
	messages, err := es.subscriber.Subscribe(ctx, es.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			es.processMessage(msg)
		}
	}()

	return nil
}

func (es *escalationConsumerService) processMessage(msg *message.Message) {
	// Hand-off is best-effort: every message is acked.
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		es.logger.Error("ESCALATION_CONSUMER", "Failed to decode escalation event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if err := es.Forward(msg.Context(), event); err != nil {
		es.logger.Error("ESCALATION_CONSUMER", "Failed to hand off escalation", map[string]interface{}{
			"conversation_id": events.String(event, "conversation_id"),
			"error":           err.Error(),
		})
	}
}

// Forward delivers one escalation to the configured channel.
func (es *escalationConsumerService) Forward(ctx context.Context, event events.Event) error {
	conversationID := events.String(event, "conversation_id")

	if es.broker != nil {
		if err := es.broker.Publish(ctx, es.subject, event); err != nil {
			return err
		}
		es.logger.Info("ESCALATION_CONSUMER", "Escalation forwarded to broker", map[string]interface{}{
			"conversation_id": conversationID,
			"subject":         es.subject,
		})
		return nil
	}

	if es.mailer != nil && es.inbox != "" {
		return es.mailer.SendEscalation(es.inbox, event)
	}

	es.logger.Warn("ESCALATION_CONSUMER", "No hand-off channel configured, escalation only logged", map[string]interface{}{
		"conversation_id": conversationID,
		"category":        events.String(event, "category"),
		"reason":          events.String(event, "reason"),
	})
	return nil
}
