// Package main provides the sermon bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/bot"
	"github.com/clcdev/sermon-linebot-go/internal/config"
	"github.com/clcdev/sermon-linebot-go/internal/genai"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
	"github.com/clcdev/sermon-linebot-go/internal/ratelimit"
	"github.com/clcdev/sermon-linebot-go/internal/sentry"
	"github.com/clcdev/sermon-linebot-go/internal/sermon"
	"github.com/clcdev/sermon-linebot-go/internal/session"
	"github.com/clcdev/sermon-linebot-go/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting sermon bot server")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed, continuing without it")
	} else if sentry.IsEnabled() {
		log.Info("Sentry enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	archiveClient := archive.NewClient(cfg.ArchiveTimeout, cfg.ArchiveMaxRetries)
	source, err := archive.NewSource(cfg.ArchiveBackend, archiveClient, cfg.SheetID, cfg.ArchiveSheetGID, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create archive source")
	}
	log.WithField("backend", source.Backend()).Info("Archive source created")

	extractor := buildExtractor(cfg, log, m)

	sessions := session.NewManager()
	llmLimiter := ratelimit.NewKeyed(cfg.LLMRateBurst, cfg.LLMRateRefill)

	sermonHandler := sermon.NewHandler(sermon.HandlerConfig{
		Extractor:  extractor,
		Source:     source,
		Sessions:   sessions,
		LLMLimiter: llmLimiter,
		Logger:     log,
		Metrics:    m,
	})

	botRegistry := bot.NewRegistry()
	botRegistry.Register(sermonHandler)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:       botRegistry,
		Sessions:       sessions,
		Logger:         log,
		Metrics:        m,
		ProcessTimeout: config.WebhookProcessing,
	})

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		ChannelToken:  cfg.LineChannelToken,
		Processor:     processor,
		Logger:        log,
		Metrics:       m,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create webhook handler")
	}
	log.Info("Webhook handler created")

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentry.Middleware())
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, cfg, webhookHandler, source, sessions, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Idle rate-limiter buckets grow one per chat; sweep them periodically.
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if n := llmLimiter.Cleanup(); n > 0 {
					log.WithField("evicted", n).Debug("Rate limiter buckets evicted")
				}
			}
		}
	}()

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cleanupCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timed out waiting for in-flight events")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	sentry.Flush(2 * time.Second)
	log.Info("Server stopped")
}

// buildExtractor assembles the LLM provider chain: Gemini first, Groq as
// fallback. With no keys configured the extractor still works, answering
// every request with the deterministic raw-text fallback.
func buildExtractor(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *genai.Extractor {
	var providers []genai.Generator

	gemini, err := genai.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Warn("Failed to create Gemini provider")
	} else if gemini != nil {
		providers = append(providers, gemini)
		log.Info("Gemini provider enabled")
	}

	groq, err := genai.NewGroq(cfg.GroqAPIKey, cfg.GroqModel)
	if err != nil {
		log.WithError(err).Warn("Failed to create Groq provider")
	} else if groq != nil {
		providers = append(providers, groq)
		log.Info("Groq provider enabled")
	}

	if len(providers) == 0 {
		log.Warn("No LLM provider configured, instruction extraction runs on raw-text fallback only")
	}

	return genai.NewExtractor(genai.ExtractorConfig{
		Providers: providers,
		Retry:     genai.DefaultRetryConfig(),
		Timeout:   cfg.LLMTimeout,
		Logger:    log,
		Metrics:   m,
	})
}
