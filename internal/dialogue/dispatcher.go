// Package dialogue composes the assistant: it classifies each turn, routes
// it to the handler for its intent and optionally rewrites the draft reply.
package dialogue

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Santiagodiaz04/chatbot-api/internal/booking"
	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/nlu"
	"github.com/Santiagodiaz04/chatbot-api/internal/reasoning"
)

const (
	defaultMaxRewriteChars   = 2800
	defaultSideEffectTimeout = 3 * time.Second
	maxStoredUserRunes       = 300
	maxStoredBotRunes        = 400
)

// Deps are the collaborators of the dispatcher. Rewriter and Conversations
// may be nil.
type Deps struct {
	Catalog       Catalog
	FAQ           FAQMatcher
	Settings      Settings
	Conversations ConversationLog
	Scheduler     Scheduler
	Rewriter      Rewriter
}

// Options tune the dispatcher.
type Options struct {
	SiteBaseURL       string
	MaxRewriteChars   int
	SideEffectTimeout time.Duration
}

// Request is one inbound turn.
type Request struct {
	Text           string
	Context        *model.DialogueContext
	ConversationID string
}

// EventFunc is called for streaming dialogue events
type EventFunc func(event string, data any) error

// Stream event names
const (
	EventIntent = "intent"
	EventDraft  = "draft"
	EventReply  = "reply"
)

// Dispatcher routes turns to intent handlers.
type Dispatcher struct {
	catalog       Catalog
	faq           FAQMatcher
	settings      Settings
	conversations ConversationLog
	rewriter      Rewriter

	engine  *reasoning.Engine
	booking *booking.Machine
	cards   CardBuilder

	maxRewriteChars   int
	sideEffectTimeout time.Duration
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(deps Deps, opts Options) *Dispatcher {
	if opts.MaxRewriteChars <= 0 {
		opts.MaxRewriteChars = defaultMaxRewriteChars
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = defaultSideEffectTimeout
	}

	var recorder booking.ConversionRecorder
	if deps.Conversations != nil {
		recorder = deps.Conversations
	}

	return &Dispatcher{
		catalog:           deps.Catalog,
		faq:               deps.FAQ,
		settings:          deps.Settings,
		conversations:     deps.Conversations,
		rewriter:          deps.Rewriter,
		engine:            reasoning.NewEngine(deps.Catalog),
		booking:           booking.NewMachine(deps.Scheduler, deps.Catalog, recorder),
		cards:             NewCardBuilder(opts.SiteBaseURL),
		maxRewriteChars:   opts.MaxRewriteChars,
		sideEffectTimeout: opts.SideEffectTimeout,
	}
}

// Handle runs one turn and returns the final reply. The input context is
// never modified; the reply carries the new one.
func (d *Dispatcher) Handle(ctx context.Context, req Request) model.Reply {
	reply, _ := d.handle(ctx, req, nil)
	return reply
}

// HandleStream runs one turn and reports the intent, the draft and the final
// reply through emit as they become available. It only fails when emit does.
func (d *Dispatcher) HandleStream(ctx context.Context, req Request, emit EventFunc) (model.Reply, error) {
	return d.handle(ctx, req, emit)
}

func (d *Dispatcher) handle(ctx context.Context, req Request, emit EventFunc) (model.Reply, error) {
	prior := req.Context.Clone()

	intent := nlu.Classify(req.Text, prior)
	turnsTotal.WithLabelValues(string(intent)).Inc()
	log.WithRequestID(ctx).WithField("intent", intent).Debug("turn classified")

	if emit != nil {
		if err := emit(EventIntent, map[string]any{"intent": intent}); err != nil {
			return model.Reply{}, err
		}
	}

	reply := d.route(ctx, intent, req, prior)
	if reply.Context == nil {
		reply.Context = &model.DialogueContext{}
	}
	if reply.Actions == nil {
		reply.Actions = []model.Action{}
	}
	reply.Intent = intent

	if emit != nil {
		if err := emit(EventDraft, map[string]any{
			"text":    reply.Text,
			"actions": reply.Actions,
			"cards":   reply.Cards,
		}); err != nil {
			return model.Reply{}, err
		}
	}

	if text, ok := d.rewrite(ctx, req.Text, reply, prior); ok {
		reply.Text = text
		reply.Rewritten = true
	}

	reply.Context.LastUserMessage = truncateRunes(req.Text, maxStoredUserRunes)
	reply.Context.LastBotMessage = truncateRunes(reply.Text, maxStoredBotRunes)

	if emit != nil {
		if err := emit(EventReply, reply); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

// route calls the handler for intent. Intents without a dedicated handler
// are answered as general questions.
func (d *Dispatcher) route(ctx context.Context, intent model.Intent, req Request, dc *model.DialogueContext) model.Reply {
	switch intent {
	case model.IntentGreeting:
		return d.greeting(ctx, dc)
	case model.IntentFarewell:
		return d.farewell(ctx, dc)
	case model.IntentSearchProperty:
		return d.searchProperty(ctx, req.Text, dc)
	case model.IntentPropertyFollowupQuestion:
		return d.propertyFollowup(ctx, req, dc)
	case model.IntentRequestAnotherOption:
		return d.anotherOption(ctx, dc)
	case model.IntentCompareOptions:
		return d.compareOptions(ctx, dc)
	case model.IntentRequestRecommendation:
		return d.recommendation(ctx, dc)
	case model.IntentRequestInformation:
		return d.information(ctx, req, dc)
	case model.IntentBookAppointment, model.IntentConfirmBookingData:
		return d.book(ctx, req, dc)
	default:
		return d.generalQuestion(ctx, req, dc)
	}
}

// rewrite asks the rewriter for a more natural text. Cards, actions and
// context are never touched; any failure keeps the draft.
func (d *Dispatcher) rewrite(ctx context.Context, userText string, draft model.Reply, prior *model.DialogueContext) (string, bool) {
	if d.rewriter == nil || strings.TrimSpace(draft.Text) == "" {
		rewriteTotal.WithLabelValues(outcomeDisabled).Inc()
		return "", false
	}

	start := time.Now()
	text, err := d.rewriter.Rewrite(ctx, model.RewriteRequest{
		UserText:        userText,
		Draft:           draft.Text,
		Intent:          draft.Intent,
		DataSummary:     DataSummary(draft.Cards),
		LastUserMessage: prior.LastUserMessage,
		LastBotMessage:  prior.LastBotMessage,
		SystemPrompt:    d.setting(ctx, SettingSystemPrompt, ""),
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		rewriteTotal.WithLabelValues(outcomeFailed).Inc()
		rewriteLatency.WithLabelValues(outcomeFailed).Observe(elapsed)
		log.WithRequestID(ctx).WithError(err).Warn("rewrite failed, keeping draft")
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > d.maxRewriteChars {
		rewriteTotal.WithLabelValues(outcomeRejected).Inc()
		rewriteLatency.WithLabelValues(outcomeRejected).Observe(elapsed)
		log.WithRequestID(ctx).WithField("length", len(text)).Warn("rewrite rejected, keeping draft")
		return "", false
	}

	rewriteTotal.WithLabelValues(outcomeRewritten).Inc()
	rewriteLatency.WithLabelValues(outcomeRewritten).Observe(elapsed)
	return text, true
}

// setting reads an admin text, falling back when it is unset or unreadable.
func (d *Dispatcher) setting(ctx context.Context, key, fallback string) string {
	if d.settings == nil {
		return fallback
	}
	v, err := d.settings.Get(ctx, key)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("key", key).Warn("failed to read setting")
		return fallback
	}
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

// sideEffectContext bounds best-effort writes and detaches them from the
// request's cancellation.
func (d *Dispatcher) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.sideEffectTimeout)
}

func (d *Dispatcher) logQuestion(ctx context.Context, conversationID, text string, intent model.Intent, faqID *int64) {
	if d.conversations == nil || conversationID == "" {
		return
	}
	cctx, cancel := d.sideEffectContext(ctx)
	defer cancel()
	if err := d.conversations.LogQuestion(cctx, conversationID, text, intent, faqID); err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("failed to log question")
	}
}
