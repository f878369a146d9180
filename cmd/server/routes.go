// Package main provides the sermon bot server entry point.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/buildinfo"
	"github.com/clcdev/sermon-linebot-go/internal/config"
	"github.com/clcdev/sermon-linebot-go/internal/session"
	"github.com/clcdev/sermon-linebot-go/internal/webhook"
)

// setupRoutes configures all HTTP routes.
func setupRoutes(router *gin.Engine, cfg *config.Config, webhookHandler *webhook.Handler, source archive.Source, sessions *session.Manager, registry *prometheus.Registry) {
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "sermon-linebot",
			"status":  "ok",
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe. Never checks dependencies.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe: verifies the archive answers.
	readyHandler := func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		records, err := source.FetchAll(checkCtx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"backend": source.Backend(),
			"records": len(records),
			"chats":   sessions.Len(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// LINE webhook callback endpoint.
	router.POST("/callback", webhookHandler.Handle)

	// Prometheus metrics endpoint, behind basic auth when configured.
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
