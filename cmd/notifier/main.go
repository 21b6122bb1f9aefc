package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"techgear-support-be/internal/config"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/pkg/mailer"
	"techgear-support-be/pkg/events"

	pktNats "techgear-support-be/pkg/nats"
)

const durableName = "escalation-notifier"

// notifier drains escalation events from JetStream and mails the support inbox.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	if cfg.App.NatsURL == "" || cfg.Support.EscalationInbox == "" || cfg.SMTP.Host == "" {
		log.Fatal("NATS_URL, ESCALATION_INBOX and SMTP_HOST must be set")
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.Support.Contact(),
		sysLogger,
	)

	subscriber, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	err = subscriber.Subscribe(ctx, cfg.Support.NatsSubject, durableName, func(ctx context.Context, event events.Event) error {
		if event.EventType() != events.TypeEscalationRaised {
			return nil
		}
		return emailService.SendEscalation(cfg.Support.EscalationInbox, event)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	sysLogger.Info("NOTIFIER", "Waiting for escalations", map[string]interface{}{"subject": cfg.Support.NatsSubject})
	<-ctx.Done()
}
