package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wellfit/gym-ai-concierge/internal/api/router"
	"github.com/wellfit/gym-ai-concierge/internal/assistant"
	"github.com/wellfit/gym-ai-concierge/internal/broadcast"
	appconfig "github.com/wellfit/gym-ai-concierge/internal/config"
	"github.com/wellfit/gym-ai-concierge/internal/conversation"
	"github.com/wellfit/gym-ai-concierge/internal/faq"
	"github.com/wellfit/gym-ai-concierge/internal/gymapi"
	"github.com/wellfit/gym-ai-concierge/internal/notify"
	"github.com/wellfit/gym-ai-concierge/internal/observability/metrics"
	"github.com/wellfit/gym-ai-concierge/internal/threads"
	"github.com/wellfit/gym-ai-concierge/internal/tickets"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting gym-ai-concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	conciergeMetrics := metrics.NewConciergeMetrics(registry)

	// Ticket escalation pipeline.
	var ticketStore tickets.Store
	switch cfg.TicketStoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ticketStore = tickets.NewRedisStore(client)
	default:
		ticketStore = tickets.NewFileStore(cfg.TicketStorePath)
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	}
	ticketSvc := tickets.NewService(ticketStore, sender, cfg.StaffEmail, conciergeMetrics, logger)

	// FAQ pipeline: published sheet -> TTL cache -> matcher middleware.
	sheetClient := faq.NewSheetClient(cfg.FAQSheetID, cfg.FAQSheetGID, logger)
	faqCache := faq.NewCache(sheetClient, cfg.FAQCacheTTL, logger)
	faqMW := faq.NewMiddleware(faqCache, faq.NewKeywordClassifier(), ticketSvc, conciergeMetrics, logger)

	// Assistant + tools.
	gymClient := gymapi.NewClient(cfg.GymAPIBaseURL, cfg.GymAPIKey, cfg.GymAPIUsername, cfg.GymAPIPassword, cfg.GymBranchID, logger)
	toolRegistry := conversation.NewRegistry(gymClient, ticketSvc, conciergeMetrics, logger)
	engine := assistant.NewEngine(cfg.OpenAIAPIKey, cfg.OpenAIAssistantID, cfg.RunPollInterval, cfg.RunTimeout, logger)

	threadStore := threads.NewFileStore(cfg.ThreadStorePath)
	convSvc := conversation.NewService(faqMW, engine, threadStore, ticketSvc, toolRegistry, conciergeMetrics, logger)
	convHandler := conversation.NewHandler(convSvc, toolRegistry, logger)

	broadcastStore := broadcast.NewStore(cfg.BroadcastDataPath)

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: convHandler,
		TicketsHandler:      tickets.NewHandler(ticketSvc, logger),
		BroadcastHandler:    broadcast.NewHandler(broadcastStore, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ToolCallAPIKey:      cfg.ToolCallAPIKey,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		WebhookRateLimit:    5,
		WebhookRateBurst:    20,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // assistant runs can poll up to the run timeout
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
