// Package webhook receives LINE webhook callbacks, acknowledges them
// immediately, and processes the events asynchronously.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/clcdev/sermon-linebot-go/internal/bot"
	"github.com/clcdev/sermon-linebot-go/internal/ctxutil"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
)

// LINE API constraints.
const (
	maxMessagesPerReply = 5
	maxEventsPerWebhook = 100
)

// MessagingClient sends replies through the LINE Messaging API.
type MessagingClient interface {
	ReplyMessage(request *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Handler handles LINE webhook callbacks.
type Handler struct {
	channelSecret string
	client        MessagingClient
	processor     *bot.Processor
	logger        *logger.Logger
	metrics       *metrics.Metrics
	wg            sync.WaitGroup
}

// HandlerConfig holds configuration for creating a Handler.
type HandlerConfig struct {
	ChannelSecret string
	ChannelToken  string
	Processor     *bot.Processor
	Logger        *logger.Logger
	Metrics       *metrics.Metrics

	// Client overrides the real Messaging API client. Tests use this.
	Client MessagingClient
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	client := cfg.Client
	if client == nil {
		api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
		if err != nil {
			return nil, fmt.Errorf("create messaging API client: %w", err)
		}
		client = api
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}

	return &Handler{
		channelSecret: cfg.ChannelSecret,
		client:        client,
		processor:     cfg.Processor,
		logger:        log.WithModule("webhook"),
		metrics:       cfg.Metrics,
	}, nil
}

// Handle is the Gin handler for POST /callback. It validates the signature,
// acknowledges with 200 right away, and hands the events to a worker
// goroutine so a slow search never makes LINE retry the delivery.
func (h *Handler) Handle(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid webhook signature")
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).Error("Failed to parse webhook request")
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)

	if len(cb.Events) > maxEventsPerWebhook {
		h.logger.WithField("event_count", len(cb.Events)).Warn("Webhook batch too large, truncating")
		cb.Events = cb.Events[:maxEventsPerWebhook]
	}

	// Copy so the slice outlives the request.
	events := make([]webhook.EventInterface, len(cb.Events))
	copy(events, cb.Events)

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in async event processing")
			}
		}()
		for _, event := range events {
			h.processEvent(context.Background(), event)
		}
	})
}

// processEvent handles one webhook event and sends the reply, if any.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	start := time.Now()

	var (
		messages  []messaging_api.MessageInterface
		eventType string
		err       error
	)

	if id := eventID(event); id != "" {
		ctx = ctxutil.WithRequestID(ctx, id)
	}
	log := h.logger.WithRequestID(ctxutil.GetRequestID(ctx))

	switch e := event.(type) {
	case webhook.MessageEvent:
		eventType = "message"
		messages, err = h.processor.ProcessMessage(ctx, e)
	case webhook.FollowEvent:
		eventType = "follow"
		messages = h.processor.ProcessFollow(ctx, e)
	default:
		log.WithField("event_type", fmt.Sprintf("%T", e)).Debug("Unsupported event type")
		return
	}

	status := "success"
	if err != nil {
		status = "error"
		log.WithError(err).WithField("event_type", eventType).Error("Failed to handle event")
	} else if len(messages) == 0 {
		status = "skipped"
	}
	h.metrics.RecordWebhook(eventType, status, time.Since(start))

	if err != nil || len(messages) == 0 {
		return
	}

	if len(messages) > maxMessagesPerReply {
		messages = messages[:maxMessagesPerReply]
	}

	replyToken := replyToken(event)
	if replyToken == "" {
		log.Debug("Empty reply token, skipping reply")
		return
	}

	if _, err := h.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("Failed to send reply")
		h.metrics.RecordWebhook(eventType, "reply_error", 0)
		return
	}

	log.WithField("event_type", eventType).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Event processed")
}

// Shutdown waits for in-flight event processing to finish, or for ctx.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func replyToken(event webhook.EventInterface) string {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return e.ReplyToken
	case webhook.FollowEvent:
		return e.ReplyToken
	default:
		return ""
	}
}

func eventID(event webhook.EventInterface) string {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return e.WebhookEventId
	case webhook.FollowEvent:
		return e.WebhookEventId
	default:
		return ""
	}
}
