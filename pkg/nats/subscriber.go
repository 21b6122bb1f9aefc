package nats

import (
	"context"
	"fmt"

	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for support events from NATS.
type Subscriber struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	cc     jetstream.ConsumeContext
	logger logger.ILogger
}

func NewSubscriber(url string, logger logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	ensureStream(js, logger)
	return &Subscriber{nc: nc, js: js, logger: logger}, nil
}

// Subscribe attaches a durable consumer for subject to the SUPPORT stream.
func (s *Subscriber) Subscribe(ctx context.Context, subject string, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		s.dispatch(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.cc = cc

	s.logger.Info("NATS", "Subscribed", map[string]interface{}{
		"subject": subject,
		"durable": durableName,
	})
	return nil
}

// dispatch settles one message: Term when the payload cannot be decoded,
// Nak when the handler fails so JetStream redelivers, Ack otherwise.
func (s *Subscriber) dispatch(ctx context.Context, msg jetstream.Msg, handler EventHandler) {
	event, err := events.Decode(msg.Data())
	if err != nil {
		s.logger.Error("NATS", "Dropping malformed event", map[string]interface{}{
			"subject": msg.Subject(),
			"error":   err.Error(),
		})
		if err := msg.Term(); err != nil {
			s.logger.Warn("NATS", "Term failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		s.logger.Error("NATS", "Handler failed", map[string]interface{}{
			"subject": msg.Subject(),
			"type":    event.EventType(),
			"error":   err.Error(),
		})
		if err := msg.Nak(); err != nil {
			s.logger.Warn("NATS", "Nak failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	if err := msg.Ack(); err != nil {
		s.logger.Warn("NATS", "Ack failed", map[string]interface{}{
			"subject": msg.Subject(),
			"error":   err.Error(),
		})
	}
}

// Close stops consuming and closes the connection.
func (s *Subscriber) Close() {
	if s.cc != nil {
		s.cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
