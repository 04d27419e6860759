package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/controller"
	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/internal/repository/memory"
	"github.com/likhit-sai/CogniFlow/internal/service"
	"github.com/likhit-sai/CogniFlow/internal/websocket"
	"github.com/likhit-sai/CogniFlow/pkg/ai/assist"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"
	"github.com/likhit-sai/CogniFlow/pkg/llm/factory"
	pktNats "github.com/likhit-sai/CogniFlow/pkg/nats"
	"github.com/likhit-sai/CogniFlow/pkg/persistence"
	"github.com/likhit-sai/CogniFlow/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger logger.ILogger

	WorkspaceService    service.IWorkspaceService
	WorkspaceController controller.IWorkspaceController

	// Background services, started by main.
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	for _, p := range []string{cfg.App.LogFilePath, cfg.App.WsLogFilePath} {
		if dir := filepath.Dir(p); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)

	c := &Container{Logger: sysLogger}

	remote, err := OpenRemoteStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, remote.Close)
	sysLogger.Info("BOOTSTRAP", "Remote store ready", map[string]interface{}{"driver": remote.Driver})

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.HuggingFaceAPIKey,
	})
	if err != nil {
		return nil, err
	}

	// Redis fan-out lets several instances push to each other's websocket clients.
	var rdb *redis.Client
	if cfg.Events.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Events.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Events.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unavailable, websocket fan-out is local only", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, rdb.Close)
		}
	}
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	sinks := []service.EventSink{c.WebSocketHub}
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			sinks = append(sinks, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, sysLogger, sinks...)

	c.WorkspaceService = service.NewWorkspaceService(
		remote.Repo,
		store.New(),
		memory.NewPlanRepository(cfg.Store.PlanTTL),
		planner.NewLLMPlanner(llmProvider),
		assist.NewAssistant(llmProvider),
		publisherService,
		sysLogger,
		service.WorkspaceServiceOpts{
			Scheduler: persistence.SchedulerOpts{
				Debounce:    cfg.Scheduler.Debounce,
				SaveTimeout: cfg.Scheduler.SaveTimeout,
			},
			PlanTTL: cfg.Store.PlanTTL,
		},
	)
	c.WorkspaceController = controller.NewWorkspaceController(c.WorkspaceService)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}
