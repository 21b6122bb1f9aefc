package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"techgear-support-be/internal/bootstrap"
	"techgear-support-be/internal/config"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/repository/implementation"
	"techgear-support-be/internal/repository/specification"
	"techgear-support-be/internal/repository/unitofwork"
	"techgear-support-be/internal/service"
	"techgear-support-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()
	dir := flag.String("dir", cfg.App.KnowledgeBaseDir, "knowledge base directory")
	flag.Parse()

	ctx := context.Background()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	db, err := database.NewGormDB(database.GormConfig{
		DSN:      cfg.Database.Connection,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	embeddingProvider, err := bootstrap.NewEmbeddingProvider(cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to build embedding provider: %v", err)
	}

	// Publishing blocks until the consumer has stored the chunks.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	defer pubSub.Close()

	consumer := service.NewConsumerService(pubSub, cfg.Rag.IngestTopic, unitofwork.NewRepositoryFactory(db), embeddingProvider, sysLogger)
	if err := consumer.Consume(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	publisher := service.NewPublisherService(pubSub, cfg.Rag.IngestTopic, cfg.Rag.EscalationTopic)
	ingestion := service.NewIngestionService(publisher, cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap, sysLogger)

	start := time.Now()
	report, err := ingestion.IngestDirectory(ctx, *dir)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	stats := consumer.Stats()
	color.Green("✅ Ingested %d sources into %d chunks in %s", report.Sources, report.Chunks, time.Since(start).Round(time.Millisecond))
	if len(report.Skipped) > 0 {
		color.Yellow("Skipped: %v", report.Skipped)
	}
	repo := implementation.NewKnowledgeChunkRepository(db)
	for _, source := range report.Published {
		stored, err := repo.Count(ctx, specification.BySource{Source: source})
		if err != nil {
			color.Red("  %s: %v", source, err)
			continue
		}
		fmt.Printf("  %s: %d chunks stored\n", source, stored)
	}
	if total, err := repo.Count(ctx); err == nil {
		fmt.Printf("Knowledge base now holds %d chunks\n", total)
	}
	if stats.Failed > 0 {
		color.Red("❌ %d sources failed to store (%d stored)", stats.Failed, stats.Processed)
	}
}
