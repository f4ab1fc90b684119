package handler

import (
	"net/http"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/repository"

	"github.com/gin-gonic/gin"
)

var validActions = map[string]bool{
	"click":        true,
	"contact":      true,
	"view_details": true,
}

// FeedbackHandler records what users do with the cards they are shown.
type FeedbackHandler struct {
	conversations ConversationStore
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(conversations ConversationStore) *FeedbackHandler {
	return &FeedbackHandler{conversations: conversations}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be one of: click, contact, view_details"})
		return
	}

	err := h.conversations.AppendMessage(c.Request.Context(), req.SessionID, repository.RoleEvent, req.Action, map[string]any{
		"reference_kind": req.ReferenceKind,
		"reference_id":   req.ReferenceID,
	})
	if err != nil {
		log.WithRequestID(c.Request.Context()).WithError(err).Error("failed to log feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log feedback"})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
