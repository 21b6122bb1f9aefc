package bootstrap

import (
	"context"
	"fmt"
	"time"

	"techgear-support-be/internal/config"
	"techgear-support-be/internal/controller"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/pkg/mailer"
	"techgear-support-be/internal/pkg/serverutils"
	"techgear-support-be/internal/repository/implementation"
	"techgear-support-be/internal/repository/memory"
	"techgear-support-be/internal/repository/unitofwork"
	"techgear-support-be/internal/service"
	"techgear-support-be/internal/websocket"
	"techgear-support-be/pkg/ai/pipeline"
	"techgear-support-be/pkg/ai/router"
	"techgear-support-be/pkg/embedding"
	embeddingFactory "techgear-support-be/pkg/embedding/factory"
	"techgear-support-be/pkg/llm"
	llmFactory "techgear-support-be/pkg/llm/factory"
	"techgear-support-be/pkg/rag/executor"
	"techgear-support-be/pkg/rag/intent"
	"techgear-support-be/pkg/rag/search"

	pktNats "techgear-support-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	SystemController  controller.ISystemController
	AuthController    controller.IAuthController
	ChatbotController controller.IChatbotController

	// Background services, started by main
	ConsumerService    service.IConsumerService
	EscalationConsumer service.IEscalationConsumerService
	IngestionService   service.IIngestionService

	// WebSocket chat
	ChatHandler  *websocket.ChatHandler
	WebSocketHub *websocket.Hub

	// Rate limit storage, nil means in-memory
	RateLimitStorage fiber.Storage

	closers []func()
}

// NewEmbeddingProvider builds the configured embedder.
func NewEmbeddingProvider(cfg *config.Config, log logger.ILogger) (embedding.EmbeddingProvider, error) {
	provider, err := embeddingFactory.NewEmbeddingProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	log.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{"provider": cfg.Ai.EmbeddingProvider})
	return provider, nil
}

// NewEngine assembles classifier, router and both responders over the
// knowledge_chunks table.
func NewEngine(
	ctx context.Context,
	db *gorm.DB,
	cfg *config.Config,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) (*executor.Engine, error) {
	llmProvider, err := llmFactory.NewLLMProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	log.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	retriever := search.NewVectorRetriever(
		embeddingProvider,
		implementation.NewKnowledgeChunkRepository(db),
		memory.NewEmbeddingCache(cfg.Rag.EmbeddingCacheTTL),
		cfg.Rag.SimilarityThreshold,
		log,
	)

	rag := pipeline.NewRAGPipeline(
		search.WithTimeout(retriever, cfg.Rag.RetrievalTimeout),
		llm.WithTimeout(llmProvider, cfg.Rag.CompletionTimeout),
		nil,
		pipeline.RAGConfig{
			TopK:        cfg.Rag.TopK,
			Temperature: cfg.Ai.Temperature,
			MaxTokens:   cfg.Ai.MaxTokens,
		},
		log,
	)
	escalation := pipeline.NewEscalationPipeline(cfg.Support.Contact(), log)

	return executor.NewEngine(
		intent.NewClassifier(intent.DefaultRules(), log),
		router.Default(log),
		rag,
		escalation,
		log,
	), nil
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 1. Core
	uowFactory := unitofwork.NewRepositoryFactory(db)
	embeddingProvider, err := NewEmbeddingProvider(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(ctx, db, cfg, embeddingProvider, sysLogger)
	if err != nil {
		return nil, err
	}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	publisherService := service.NewPublisherService(pubSub, cfg.Rag.IngestTopic, cfg.Rag.EscalationTopic)

	// 3. Infrastructure
	var broker service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, escalations stay local", map[string]interface{}{"error": err.Error()})
		} else {
			broker = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var escalationMailer service.EscalationMailer
	if cfg.SMTP.Host != "" {
		escalationMailer = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.Support.Contact(),
			sysLogger,
		)
	}

	if cfg.App.RedisURL != "" {
		if storage := newRedisStorage(ctx, cfg.App.RedisURL, sysLogger); storage != nil {
			c.RateLimitStorage = storage
			c.closers = append(c.closers, func() { _ = storage.client.Close() })
		}
	}

	// 4. Services
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Rag.IngestTopic, uowFactory, embeddingProvider, sysLogger)
	c.EscalationConsumer = newEscalationConsumer(pubSub, cfg, broker, escalationMailer, sysLogger)
	c.IngestionService = service.NewIngestionService(publisherService, cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap, sysLogger)

	chatbotService := service.NewChatbotService(
		engine,
		publisherService,
		cfg.Support.Contact(),
		cfg.Rag.RequestTimeout,
		sysLogger,
	)
	authService := service.NewAuthService(cfg.Auth)

	// 5. WebSocket
	wsLogger := logger.NewIsolatedLogger(cfg.App.WSLogFilePath)
	c.WebSocketHub = websocket.NewHub(wsLogger)
	frameLimiter := serverutils.NewFrameLimiter(cfg.RateLimit, c.RateLimitStorage)
	c.ChatHandler = websocket.NewChatHandler(c.WebSocketHub, chatbotService, frameLimiter, wsLogger)

	// 6. Controllers
	c.SystemController = controller.NewSystemController(cfg.App.Name, cfg.App.Version)
	c.AuthController = controller.NewAuthController(authService)
	c.ChatbotController = controller.NewChatbotController(chatbotService)

	return c, nil
}

func newEscalationConsumer(
	subscriber message.Subscriber,
	cfg *config.Config,
	broker service.EventPublisher,
	escalationMailer service.EscalationMailer,
	log logger.ILogger,
) service.IEscalationConsumerService {
	return service.NewEscalationConsumerService(
		subscriber,
		cfg.Rag.EscalationTopic,
		broker,
		cfg.Support.NatsSubject,
		escalationMailer,
		cfg.Support.EscalationInbox,
		log,
	)
}

type redisStorage struct {
	*serverutils.RedisStorage
	client *redis.Client
}

// newRedisStorage returns nil when Redis cannot be reached.
func newRedisStorage(ctx context.Context, url string, log logger.ILogger) *redisStorage {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, rate limits kept in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}

	return &redisStorage{
		RedisStorage: serverutils.NewRedisStorage(rdb, "ratelimit:"),
		client:       rdb,
	}
}

// Start launches the bus consumers and the WebSocket hub.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("knowledge consumer: %w", err)
	}
	if err := c.EscalationConsumer.Consume(ctx); err != nil {
		return fmt.Errorf("escalation consumer: %w", err)
	}
	go c.WebSocketHub.Run(ctx)
	return nil
}

// Close releases broker, bus and Redis connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
