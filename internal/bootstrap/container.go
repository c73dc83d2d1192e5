package bootstrap

import (
	"context"
	"fmt"
	"log"

	"capsule-labeling-be/internal/config"
	"capsule-labeling-be/internal/controller"
	"capsule-labeling-be/internal/handler"
	"capsule-labeling-be/internal/pkg/logger"
	"capsule-labeling-be/internal/repository/memory"
	"capsule-labeling-be/internal/service"
	"capsule-labeling-be/internal/websocket"
	"capsule-labeling-be/pkg/registry"

	pktNats "capsule-labeling-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const eventsTopic = "labeling_events"

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	HistoryController controller.IHistoryController

	// WebSocket activity feed
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	// Services (the CLI drives SessionService directly)
	SessionService service.ISessionService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	vocab, err := registry.ParseVocabulary(cfg.Labeling.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("parse LABEL_VOCABULARY: %w", err)
	}

	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.Cache.Backend == config.CacheRedis {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	backends, err := NewStorage(ctx, cfg, vocab, db, rdb)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { pubSub.Close() })

	// WebSocket Hub (Redis fan-out only when the Redis cache is configured)
	hubCtx, stopHub := context.WithCancel(context.Background())
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	go c.WebSocketHub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)

	// 4. Services
	sessionRepo := memory.NewSessionRepository(cfg.Labeling.SessionTTL)
	publisherService := service.NewPublisherService(eventsTopic, pubSub, natsPub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, eventsTopic, auditLogger, c.WebSocketHub, sysLogger)

	c.SessionService = service.NewSessionService(
		sessionRepo,
		backends.Images,
		backends.Fetcher,
		backends.Tables,
		publisherService,
		sysLogger,
		service.LabelingOptions{
			Vocabulary:   vocab,
			FolderRef:    cfg.Storage.FramesFolderID,
			LabeledRef:   cfg.Storage.LabeledRef,
			UnlabeledRef: cfg.Storage.UnlabeledRef,
			Strict:       cfg.Labeling.StrictReconcile,
		},
	)
	historyService := service.NewHistoryService(auditLogger)

	// 5. Controllers
	c.SessionController = controller.NewSessionController(c.SessionService)
	c.HistoryController = controller.NewHistoryController(historyService)
	c.FeedHandler = handler.NewFeedHandler(c.WebSocketHub, sysLogger)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
}
