package bootstrap

import (
	"context"
	"log"

	"github.com/gecBurton/dosac/internal/config"
	"github.com/gecBurton/dosac/internal/controller"
	"github.com/gecBurton/dosac/internal/pkg/logger"
	"github.com/gecBurton/dosac/internal/pkg/mailer"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/internal/service"
	"github.com/gecBurton/dosac/internal/websocket"
	"github.com/gecBurton/dosac/pkg/agent"
	"github.com/gecBurton/dosac/pkg/citation"
	"github.com/gecBurton/dosac/pkg/embedding"
	"github.com/gecBurton/dosac/pkg/extract"
	"github.com/gecBurton/dosac/pkg/llm"
	"github.com/gecBurton/dosac/pkg/wikipedia"

	pktNats "github.com/gecBurton/dosac/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ingestTopic is the in-process queue between upload and extraction.
const ingestTopic = "INGEST_DOCUMENT"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Exposed for the websocket routes
	ChatService  service.IChatService
	WebSocketHub *websocket.Hub
	Logger       logger.ILogger

	// Background services, run by main
	IngestionService service.IIngestionService
	DocumentNotifier *websocket.DocumentNotifier
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process job queue for ingestion
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Model providers
	embeddingProvider := embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	llmProvider := llm.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
	extractor := extract.NewClient(cfg.Extract.BaseURL, cfg.Extract.APIKey)
	wikipediaClient := wikipedia.NewClientWithURL(cfg.Wikipedia.APIURL)

	// NATS event bus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis, for cross-instance websocket fanout
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
		rdb = nil
	}

	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// Agent wiring: the gateway scopes every tool query to the caller
	gateway := service.NewToolGateway(uowFactory)
	toolset := agent.NewToolset(
		&agent.SearchWikipediaTool{Wikipedia: wikipediaClient},
		&agent.SearchDocumentsTool{Embedder: embeddingProvider, Gateway: gateway},
		&agent.ListDocumentsTool{Gateway: gateway},
		&agent.DeleteDocumentTool{Gateway: gateway},
		&agent.ListChatsTool{Gateway: gateway},
	)
	runner := agent.NewRunner(llmProvider, toolset, "")
	deriver := citation.NewDeriver(llmProvider)

	// Services
	publisherService := service.NewPublisherService(ingestTopic, pubSub)
	authService := service.NewAuthService(uowFactory, emailService, cfg)
	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, cfg)
	chatService := service.NewChatService(uowFactory, runner, deriver)
	ingestionService := service.NewIngestionService(
		pubSub,
		ingestTopic,
		uowFactory,
		extractor,
		embeddingProvider,
		natsPub,
	)

	var notifier *websocket.DocumentNotifier
	if natsSub != nil {
		notifier = websocket.NewDocumentNotifier(natsSub, wsHub, sysLogger)
	}

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),

		ChatService:  chatService,
		WebSocketHub: wsHub,
		Logger:       sysLogger,

		IngestionService: ingestionService,
		DocumentNotifier: notifier,
	}
}
