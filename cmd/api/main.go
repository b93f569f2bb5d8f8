package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/atia-health/atia-backend/internal/api/handlers"
	"github.com/atia-health/atia-backend/internal/api/routes"
	"github.com/atia-health/atia-backend/internal/application/services"
	"github.com/atia-health/atia-backend/internal/domain/providers"
	"github.com/atia-health/atia-backend/internal/infrastructure/clients/openai"
	"github.com/atia-health/atia-backend/internal/infrastructure/clients/renderer"
	"github.com/atia-health/atia-backend/internal/infrastructure/notifications"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
	"github.com/atia-health/atia-backend/internal/infrastructure/staging"
	"github.com/atia-health/atia-backend/internal/infrastructure/telephony"
	"github.com/atia-health/atia-backend/pkg/config"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Completion provider is the one mandatory collaborator
	completions, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize completion client")
	}

	// Staging store backs both report dispatch and the /baixar/ downloads
	store, err := staging.NewStore(cfg.Staging.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize staging directory")
	}

	sweeper := staging.NewSweeper(store, metrics)
	sweeper.Start()
	defer sweeper.Stop()

	// Optional collaborators: each degrades to a skipped stage when unconfigured
	var voiceCaller providers.VoiceCaller
	if caller, err := telephony.NewTwilioCaller(&cfg.Twilio); err != nil {
		log.Warn().Err(err).Msg("Voice alerting disabled")
	} else {
		voiceCaller = caller
		log.Info().Msg("Twilio voice caller initialized")
	}

	var messageSender providers.MessageSender
	if sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp); err != nil {
		log.Warn().Err(err).Msg("WhatsApp delivery disabled")
	} else {
		messageSender = sender
		log.Info().Msg("WhatsApp sender initialized")
	}

	var reportRenderer providers.ReportRenderer
	if client, err := renderer.NewHTTPClient(cfg.Renderer.BaseURL); err != nil {
		log.Warn().Err(err).Msg("Report rendering disabled")
	} else {
		reportRenderer = client
		log.Info().Msg("Report renderer client initialized")
	}

	// Wire services
	normalization := services.NewNormalizationService(completions)
	escalation := services.NewEscalationService(voiceCaller, cfg.Twilio.AlertNumber)
	reports := services.NewReportService(reportRenderer, messageSender, store, cfg.Server.PublicBaseURL)
	triage := services.NewTriageService(completions, cfg.OpenAI.Model, normalization, escalation, reports)

	triageHandler := handlers.NewTriageHandler(triage)

	router := routes.NewRouter(triageHandler, store.Dir(), metrics)
	handler := router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
}
