package bootstrap

import (
	"context"
	"log"
	"math/rand"
	"time"

	"bi-copilot-be/internal/config"
	"bi-copilot-be/internal/constant"
	"bi-copilot-be/internal/controller"
	"bi-copilot-be/internal/pkg/logger"
	"bi-copilot-be/internal/pkg/mailer"
	"bi-copilot-be/internal/repository/unitofwork"
	"bi-copilot-be/internal/service"
	"bi-copilot-be/internal/websocket"
	"bi-copilot-be/pkg/agent"
	"bi-copilot-be/pkg/llm/factory"
	"bi-copilot-be/pkg/ratelimit"
	"bi-copilot-be/pkg/titlegen"
	"bi-copilot-be/pkg/tools"

	pktNats "bi-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	ChatbotController   controller.IChatbotController
	AnalyticsController controller.IAnalyticsController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// Rate limiter keyed on redis, falls back to memory when redis is down
	limiter := ratelimit.NewRedisLimiter(rdb, ratelimit.DefaultConfig())

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Completion stack
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		ModelName:     cfg.Ai.LLMModel,
		GroqAPIKey:    cfg.Ai.GroqAPIKey,
		GroqBaseURL:   cfg.Ai.GroqBaseURL,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	toolRegistry := tools.DefaultRegistry()
	completionAgent := agent.New(llmProvider, toolRegistry, agent.Config{
		SystemPrompt:   constant.SystemPromptV1,
		FollowUpPrompt: constant.ToolFollowUpPromptV1,
		Temperature:    cfg.Ai.Temperature,
		MaxTokens:      cfg.Ai.MaxTokens,
		HistoryWindow:  cfg.Ai.HistoryWindow,
	})

	titleEngine := titlegen.NewEngine(
		titlegen.DefaultConfig(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	// 4. Services
	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg.Auth)
	userService := service.NewUserService(uowFactory)
	analyticsService := service.NewAnalyticsService(uowFactory)

	chatbotService := service.NewChatbotService(
		uowFactory,
		completionAgent,
		titleEngine,
		sysLogger,
		pubSub,
		cfg.App.ChatEventTopic,
		natsPub,
		time.Duration(cfg.Ai.CompletionTimeout)*time.Second,
	)

	consumerService := service.NewConsumerService(pubSub, cfg.App.ChatEventTopic, wsHub)

	// 5. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService, limiter),
		UserController:      controller.NewUserController(userService),
		ChatbotController:   controller.NewChatbotController(chatbotService, wsHub, limiter, sysLogger),
		AnalyticsController: controller.NewAnalyticsController(analyticsService),
		ConsumerService:     consumerService,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}
}
