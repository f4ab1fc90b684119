package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/dialogue"
	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/repository"

	"github.com/gin-gonic/gin"
)

const defaultLogTimeout = 5 * time.Second

// DialogueService runs one chat turn.
type DialogueService interface {
	Handle(ctx context.Context, req dialogue.Request) model.Reply
	HandleStream(ctx context.Context, req dialogue.Request, emit dialogue.EventFunc) (model.Reply, error)
}

// ConversationStore persists conversations and their messages.
type ConversationStore interface {
	StartConversation(ctx context.Context, origin string) (string, error)
	AppendMessage(ctx context.Context, conversationID, role, content string, metadata map[string]any) error
}

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	dialogue      DialogueService
	conversations ConversationStore
	origin        string
	logTimeout    time.Duration
	pending       sync.WaitGroup
}

// NewChatHandler creates a new chat handler. conversations may be nil.
func NewChatHandler(svc DialogueService, conversations ConversationStore, origin string) *ChatHandler {
	return &ChatHandler{
		dialogue:      svc,
		conversations: conversations,
		origin:        origin,
		logTimeout:    defaultLogTimeout,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sessionID := h.session(ctx, req.SessionID)

	reply := h.dialogue.Handle(ctx, dialogue.Request{
		Text:           req.Message,
		Context:        turnContext(req),
		ConversationID: sessionID,
	})

	h.record(ctx, sessionID, req.Message, reply)
	c.JSON(http.StatusOK, response(sessionID, reply))
}

// ChatStream handles POST /chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	sessionID := h.session(ctx, req.SessionID)

	sendSSE(c, "start", gin.H{"session_id": sessionID})
	flusher.Flush()

	reply, err := h.dialogue.HandleStream(ctx, dialogue.Request{
		Text:           req.Message,
		Context:        turnContext(req),
		ConversationID: sessionID,
	}, func(event string, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("chat stream interrupted")
		sendSSE(c, "error", gin.H{"error": "The conversation was interrupted, please try again."})
		flusher.Flush()
		return
	}

	h.record(ctx, sessionID, req.Message, reply)

	sendSSE(c, "done", response(sessionID, reply))
	flusher.Flush()
}

// Wait blocks until background conversation writes have finished.
func (h *ChatHandler) Wait() {
	h.pending.Wait()
}

func (h *ChatHandler) bind(c *gin.Context) (*model.ChatRequest, bool) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
		return nil, false
	}
	return &req, true
}

// session returns the caller's session id or starts a new conversation.
func (h *ChatHandler) session(ctx context.Context, sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	if h.conversations != nil {
		id, err := h.conversations.StartConversation(ctx, h.origin)
		if err == nil {
			return id
		}
		log.WithRequestID(ctx).WithError(err).Warn("failed to start conversation, using a local id")
	}
	return repository.NewConversationID()
}

// record appends the exchange in the background so the reply is not held up
// by the conversation log.
func (h *ChatHandler) record(ctx context.Context, sessionID, userText string, reply model.Reply) {
	if h.conversations == nil {
		return
	}

	requestID := ctx.Value(log.RequestIDKey)
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		bg, cancel := context.WithTimeout(context.WithValue(context.Background(), log.RequestIDKey, requestID), h.logTimeout)
		defer cancel()

		if err := h.conversations.AppendMessage(bg, sessionID, repository.RoleUser, userText, nil); err != nil {
			log.WithRequestID(bg).WithError(err).Warn("failed to store user message")
			return
		}
		meta := map[string]any{"intent": reply.Intent, "rewritten": reply.Rewritten}
		if len(reply.Cards) > 0 {
			ids := make([]string, len(reply.Cards))
			for i, card := range reply.Cards {
				ids[i] = fmt.Sprintf("%s:%d", card.Type, card.ID)
			}
			meta["cards"] = ids
		}
		if err := h.conversations.AppendMessage(bg, sessionID, repository.RoleBot, reply.Text, meta); err != nil {
			log.WithRequestID(bg).WithError(err).Warn("failed to store bot message")
		}
	}()
}

// turnContext applies an explicit reference from the request over the
// round-tripped context.
func turnContext(req *model.ChatRequest) *model.DialogueContext {
	dc := req.Context.Clone()
	if kind := model.ReferenceKind(req.ReferenceKind); kind.Valid() && req.ReferenceID > 0 {
		dc.SetReference(kind, req.ReferenceID)
	}
	return dc
}

func response(sessionID string, reply model.Reply) model.ChatResponse {
	return model.ChatResponse{
		Text:      reply.Text,
		Actions:   reply.Actions,
		Cards:     reply.Cards,
		Context:   reply.Context,
		SessionID: sessionID,
		Intent:    reply.Intent,
		Rewritten: reply.Rewritten,
	}
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
