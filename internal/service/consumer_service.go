package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/entity"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/repository/unitofwork"
	"techgear-support-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type ConsumerStats struct {
	Processed int64
	Failed    int64
}

type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() ConsumerStats
}

// consumerService embeds published knowledge chunks and replaces the stored
// rows of their source in one transaction.
type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger

	processed atomic.Int64
	failed    atomic.Int64
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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

func (cs *consumerService) Stats() ConsumerStats {
	return ConsumerStats{
		Processed: cs.processed.Load(),
		Failed:    cs.failed.Load(),
	}
}

// processMessage always acks: a failed source is reported and re-ingested by
// the operator rather than redelivered in a loop.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PublishKnowledgeChunksMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.fail("Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if err := cs.store(ctx, &payload); err != nil {
		cs.fail("Failed to store knowledge source", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		return
	}

	cs.processed.Add(1)
	cs.logger.Info("CONSUMER", "Knowledge source stored", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(payload.Chunks),
	})
}

func (cs *consumerService) fail(reason string, details map[string]interface{}) {
	cs.failed.Add(1)
	cs.logger.Error("CONSUMER", reason, details)
}

func (cs *consumerService) store(ctx context.Context, payload *dto.PublishKnowledgeChunksMessage) error {
	now := time.Now()
	chunks := make([]*entity.KnowledgeChunk, 0, len(payload.Chunks))

	// Embed outside the transaction.
	for i, text := range payload.Chunks {
		res, err := cs.embeddingProvider.Generate(ctx, text, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %w", i, err)
		}

		chunks = append(chunks, &entity.KnowledgeChunk{
			Id:             uuid.New(),
			Source:         payload.Source,
			ChunkIndex:     i,
			Content:        text,
			EmbeddingValue: res.Embedding.Values,
			Metadata: map[string]interface{}{
				"source":      payload.Source,
				"chunk_index": i,
			},
			CreatedAt: now,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	repo := uow.KnowledgeChunkRepository()
	if err := repo.DeleteBySource(ctx, payload.Source); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}
	if err := repo.CreateBulk(ctx, chunks); err != nil {
		return fmt.Errorf("create chunks: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
