package bot

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/clcdev/sermon-linebot-go/internal/ctxutil"
	"github.com/clcdev/sermon-linebot-go/internal/lineutil"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
	"github.com/clcdev/sermon-linebot-go/internal/sermon"
	"github.com/clcdev/sermon-linebot-go/internal/session"
)

// resetKeywords restart the conversation: the session is cleared and the
// welcome message is sent.
var resetKeywords = []string{"start", "reset", "/start", "/reset"}

// maxMessageLen is the LINE API inbound text limit.
const maxMessageLen = 20000

// Processor turns webhook events into reply messages. It owns the reset
// command and the follow lifecycle; everything else goes to the registry.
type Processor struct {
	registry       *Registry
	sessions       *session.Manager
	logger         *logger.Logger
	metrics        *metrics.Metrics
	processTimeout time.Duration
}

// ProcessorConfig holds configuration for creating a Processor.
type ProcessorConfig struct {
	Registry       *Registry
	Sessions       *session.Manager
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	ProcessTimeout time.Duration
}

// NewProcessor creates a new event processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}
	return &Processor{
		registry:       cfg.Registry,
		sessions:       cfg.Sessions,
		logger:         log.WithModule("bot"),
		metrics:        cfg.Metrics,
		processTimeout: cfg.ProcessTimeout,
	}
}

// ProcessMessage handles a text message event.
func (p *Processor) ProcessMessage(ctx context.Context, event webhook.MessageEvent) ([]messaging_api.MessageInterface, error) {
	chatID := GetChatID(event.Source)
	userID := GetUserID(event.Source)
	ctx = ctxutil.WithChatID(ctx, chatID)
	ctx = ctxutil.WithUserID(ctx, userID)

	if event.Message.GetType() != "text" {
		return nil, nil
	}
	textMsg, ok := event.Message.(webhook.TextMessageContent)
	if !ok {
		return nil, errors.New("failed to cast message to text")
	}

	text := strings.TrimSpace(textMsg.Text)
	if text == "" || len(text) > maxMessageLen {
		return nil, nil
	}

	if slices.ContainsFunc(resetKeywords, func(k string) bool {
		return strings.EqualFold(text, k)
	}) {
		p.sessions.Reset(chatID)
		p.logger.WithChatID(chatID).Info("Session reset by command")
		return []messaging_api.MessageInterface{lineutil.NewTextMessage(sermon.WelcomeText())}, nil
	}

	processCtx := ctx
	if p.processTimeout > 0 {
		var cancel context.CancelFunc
		processCtx, cancel = context.WithTimeout(ctx, p.processTimeout)
		defer cancel()
	}

	return p.registry.DispatchMessage(processCtx, text), nil
}

// ProcessFollow handles a follow event (user adds or unblocks the bot):
// start fresh and greet.
func (p *Processor) ProcessFollow(_ context.Context, event webhook.FollowEvent) []messaging_api.MessageInterface {
	chatID := GetChatID(event.Source)
	p.sessions.Reset(chatID)
	p.logger.WithChatID(chatID).Info("New follower")
	return []messaging_api.MessageInterface{lineutil.NewTextMessage(sermon.WelcomeText())}
}
