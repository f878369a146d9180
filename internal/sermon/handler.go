// Package sermon implements the sermon-retrieval conversation: interpret a
// chat message as a search instruction, run the keyword or date search over
// the archive, and page through the results across follow-up messages.
package sermon

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/clcdev/sermon-linebot-go/internal/archive"
	"github.com/clcdev/sermon-linebot-go/internal/ctxutil"
	"github.com/clcdev/sermon-linebot-go/internal/genai"
	"github.com/clcdev/sermon-linebot-go/internal/lineutil"
	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
	"github.com/clcdev/sermon-linebot-go/internal/paginate"
	"github.com/clcdev/sermon-linebot-go/internal/ratelimit"
	"github.com/clcdev/sermon-linebot-go/internal/search"
	"github.com/clcdev/sermon-linebot-go/internal/session"
)

// InstructionExtractor turns raw chat text and topic history into a search
// instruction. Implementations never fail; they fall back to a deterministic
// instruction instead.
type InstructionExtractor interface {
	Extract(ctx context.Context, rawText string, history []string) genai.Instruction
}

// Handler is the catch-all text handler: every message that reaches it is
// treated as a sermon search request.
type Handler struct {
	extractor  InstructionExtractor
	source     archive.Source
	sessions   *session.Manager
	llmLimiter *ratelimit.KeyedLimiter
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// HandlerConfig holds the collaborators of a Handler.
type HandlerConfig struct {
	Extractor  InstructionExtractor
	Source     archive.Source
	Sessions   *session.Manager
	LLMLimiter *ratelimit.KeyedLimiter
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// NewHandler creates the sermon search handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}
	return &Handler{
		extractor:  cfg.Extractor,
		source:     cfg.Source,
		sessions:   cfg.Sessions,
		llmLimiter: cfg.LLMLimiter,
		logger:     log.WithModule("sermon"),
		metrics:    cfg.Metrics,
	}
}

// Name returns the module name.
func (h *Handler) Name() string { return "sermon" }

// CanHandle always reports true. The handler is registered last so every
// message not claimed by another module becomes a search.
func (h *Handler) CanHandle(string) bool { return true }

// HandleMessage runs one search turn for a chat message.
func (h *Handler) HandleMessage(ctx context.Context, text string) []messaging_api.MessageInterface {
	chatID := ctxutil.GetChatID(ctx)
	state := h.sessions.Get(chatID)
	log := h.logger.WithChatID(chatID)

	inst := h.extract(ctx, chatID, text, state.History())
	log.WithFields(map[string]any{
		"keywords": inst.Keywords,
		"limit":    inst.Limit,
		"date":     inst.Date,
	}).Info("Instruction extracted")

	// Fetch before touching session state so a failed search leaves the
	// session exactly as it was.
	records, err := h.source.FetchAll(ctx)
	if err != nil {
		log.WithError(err).Error("Archive fetch failed")
		h.metrics.RecordSearch(searchKind(inst), "error")
		return reply(lineutil.NewTextMessage(RenderArchiveUnavailable()))
	}

	// Every interpreted keyword string joins the topic history, date searches
	// included, so a follow-up "more" can resolve to the latest topic.
	state.RememberTopic(inst.Keywords)

	if inst.Date != "" {
		if matches, ok := search.FilterByDate(inst.Date, records); ok {
			return h.handleDateSearch(inst, matches)
		}
		// Malformed date spec degrades to the keyword path.
	}

	return h.handleKeywordSearch(state, inst, records)
}

// extract runs instruction extraction, degrading to the deterministic
// fallback when the chat has used up its LLM budget.
func (h *Handler) extract(ctx context.Context, chatID, text string, history []string) genai.Instruction {
	if h.llmLimiter != nil && !h.llmLimiter.Allow(chatID) {
		h.logger.WithChatID(chatID).Warn("LLM rate limit hit, using fallback extraction")
		if h.metrics != nil {
			h.metrics.RateLimiterDropped.WithLabelValues("llm").Inc()
		}
		return genai.Fallback(text)
	}
	if h.extractor == nil {
		return genai.Fallback(text)
	}
	return h.extractor.Extract(ctx, text, history)
}

// handleDateSearch answers a date-filtered search. Date searches never read
// or write pagination state: no offset, no cached ranking, every request
// recomputed.
func (h *Handler) handleDateSearch(inst genai.Instruction, matches []search.ScoredRecord) []messaging_api.MessageInterface {
	page := paginate.Slice(matches, 0, inst.Limit)
	if page.Outcome != paginate.OutcomePage {
		h.metrics.RecordSearch("date", "no_match")
		return reply(lineutil.NewTextMessage(RenderDateNoMatch(inst.Date)))
	}

	h.metrics.RecordSearch("date", "page")
	return reply(lineutil.NewTextMessage(RenderPage(page)))
}

// handleKeywordSearch answers a keyword search, computing the ranking on the
// first request for a topic and slicing the cached ranking on continuations.
func (h *Handler) handleKeywordSearch(state *session.State, inst genai.Instruction, records []archive.Record) []messaging_api.MessageInterface {
	topic := inst.Keywords
	offset := state.Offset(topic)
	ranked, best, cached := state.Ranking(topic)
	if offset == 0 && !cached {
		ranked, best = search.Match(topic, records)
		state.StoreRanking(topic, ranked, best)
	}

	page := paginate.Slice(ranked, offset, inst.Limit)
	switch page.Outcome {
	case paginate.OutcomeNoMatch:
		h.metrics.RecordSearch("keyword", "no_match")
		return reply(lineutil.NewTextMessage(RenderNoMatch(topic, best)))

	case paginate.OutcomeExhausted:
		h.metrics.RecordSearch("keyword", "exhausted")
		return reply(lineutil.NewTextMessage(RenderExhausted()))

	default:
		state.AdvanceOffset(topic, len(page.Records))
		h.metrics.RecordSearch("keyword", "page")
		msg := lineutil.WithQuickReply(
			lineutil.NewTextMessage(RenderPage(page)),
			[]lineutil.QuickReplyItem{lineutil.QuickReplyMoreAction()},
		)
		return reply(msg)
	}
}

func searchKind(inst genai.Instruction) string {
	if inst.Date != "" && search.ClassifyDateSpec(inst.Date) != search.DateSpecNone {
		return "date"
	}
	return "keyword"
}

func reply(msgs ...messaging_api.MessageInterface) []messaging_api.MessageInterface {
	return msgs
}
