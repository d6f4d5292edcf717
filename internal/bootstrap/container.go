package bootstrap

import (
	"context"
	"log"

	"contextual-chatbot-be/internal/config"
	"contextual-chatbot-be/internal/constant"
	"contextual-chatbot-be/internal/controller"
	"contextual-chatbot-be/internal/handler"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/internal/service"
	"contextual-chatbot-be/internal/websocket"
	"contextual-chatbot-be/pkg/identity/hosted"
	"contextual-chatbot-be/pkg/knowledge/gateway"
	"contextual-chatbot-be/pkg/objectstore/gcs"

	pktNats "contextual-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	SyncController     controller.ISyncController
	ChatbotController  controller.IChatbotController
	SettingsController controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 External Providers
	identityProvider := hosted.New(hosted.Config{
		Domain:       cfg.Identity.Domain,
		ClientID:     cfg.Identity.ClientID,
		ClientSecret: cfg.Identity.ClientSecret,
		RedirectURI:  cfg.Identity.RedirectURI,
	})

	knowledgeProvider := gateway.NewClient(cfg.Knowledge.GatewayURL, cfg.Knowledge.APIKey)

	objectStore, err := gcs.New(context.Background(), cfg.Storage.CredentialsFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object store: %v", err)
	}

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()
	jobRepo := memory.NewSyncJobRepository()

	// 2.6 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(constant.SyncWatchTopic, pubSub)

	authService := service.NewAuthService(identityProvider, sessionRepo, cfg, sysLogger)
	documentService := service.NewDocumentService(objectStore, natsPub, sysLogger)
	syncService := service.NewSyncService(knowledgeProvider, jobRepo, publisherService, cfg.Sync, sysLogger)
	chatbotService := service.NewChatbotService(knowledgeProvider, sessionRepo, sysLogger)
	settingsService := service.NewSettingsService(sessionRepo, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		constant.SyncWatchTopic,
		jobRepo,
		syncService,
		natsPub,
	)

	// 3.5 Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(natsPub, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		DocumentController:  controller.NewDocumentController(documentService, sessionRepo),
		SyncController:      controller.NewSyncController(syncService, sessionRepo),
		ChatbotController:   controller.NewChatbotController(chatbotService, sessionRepo),
		SettingsController:  controller.NewSettingsController(settingsService, sessionRepo),

		ConsumerService: consumerService,
	}
}
