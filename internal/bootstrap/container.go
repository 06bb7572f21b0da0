package bootstrap

import (
	"context"
	"log"
	"time"

	"paper-assistant-be/internal/config"
	"paper-assistant-be/internal/controller"
	"paper-assistant-be/internal/handler"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/pkg/mailer"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/internal/scheduler"
	"paper-assistant-be/internal/service"
	"paper-assistant-be/internal/websocket"
	"paper-assistant-be/pkg/arxiv"
	"paper-assistant-be/pkg/embedding"
	"paper-assistant-be/pkg/llm/factory"
	"paper-assistant-be/pkg/vectorindex"

	pktNats "paper-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// indexPaperTopic is the in-process queue between paper ingestion and the
// embedding worker.
const indexPaperTopic = "INDEX_PAPER"

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	PaperController     controller.IPaperController
	TopicController     controller.ITopicController
	IndexController     controller.IIndexController
	SystemController    controller.ISystemController
	TranslateController controller.ITranslateController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	Scheduler       *scheduler.Scheduler

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	digestMailer := mailer.NewDigestMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		// The answering pipeline degrades gracefully without a model; the
		// rest of the system (fetch, index, digest) keeps working.
		log.Printf("[WARN] Failed to initialize LLM Provider: %v. Answering disabled.", err)
		llmProvider = nil
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (optional, cross-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Domain services
	arxivClient := arxiv.NewClient(cfg.Arxiv.BaseURL)
	index := vectorindex.NewPgvectorIndex(embeddingProvider, uowFactory)

	publisherService := service.NewPublisherService(pubSub, indexPaperTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		indexPaperTopic,
		uowFactory,
		index,
	)

	chatService := service.NewChatService(llmProvider, index)
	translationService := service.NewTranslationService(llmProvider, sysLogger)
	paperService := service.NewPaperService(uowFactory, arxivClient, index, publisherService, sysLogger)
	topicService := service.NewTopicService(uowFactory, arxivClient, publisherService, natsPub, cfg.Arxiv.MaxResults, sysLogger)
	indexerService := service.NewIndexerService(uowFactory, index, natsPub, sysLogger)
	digestService := service.NewDigestService(uowFactory, digestMailer, natsPub, cfg.Arxiv.DigestRecipient, sysLogger)

	// 5. Notification system
	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger)
	if err := notifService.StartConsuming(); err != nil {
		log.Printf("[WARN] Failed to start notification consumer: %v", err)
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 6. Scheduler
	sched := scheduler.New(sysLogger)
	sched.AddDailyTask("daily_fetch", 8, 0, func(ctx context.Context) error {
		_, err := topicService.FetchAll(ctx)
		return err
	})
	sched.AddDailyTask("daily_digest", 9, 0, func(ctx context.Context) error {
		_, err := digestService.SendDailyDigest(ctx)
		return err
	})
	sched.AddIntervalTask("index_check", 4*time.Hour, func(ctx context.Context) error {
		_, err := indexerService.IndexPending(ctx)
		return err
	})
	sched.AddIntervalTask("conversation_cleanup", time.Hour, func(ctx context.Context) error {
		chatService.EvictStaleConversations()
		return nil
	})

	systemService := service.NewSystemService(uowFactory, index, llmProvider, chatService, sched)

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		PaperController:     controller.NewPaperController(paperService),
		TopicController:     controller.NewTopicController(topicService),
		IndexController:     controller.NewIndexController(indexerService),
		SystemController:    controller.NewSystemController(systemService, digestService),
		TranslateController: controller.NewTranslateController(translationService),

		ConsumerService: consumerService,
		Scheduler:       sched,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
