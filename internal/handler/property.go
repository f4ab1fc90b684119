package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Santiagodiaz04/chatbot-api/internal/dialogue"
	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"github.com/gin-gonic/gin"
)

// PropertyReader loads one active property.
type PropertyReader interface {
	GetProperty(ctx context.Context, id int64) (*model.PropertySummary, error)
}

// PropertyHandler serves property cards to the chat widget.
type PropertyHandler struct {
	properties PropertyReader
	cards      dialogue.CardBuilder
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(properties PropertyReader, cards dialogue.CardBuilder) *PropertyHandler {
	return &PropertyHandler{properties: properties, cards: cards}
}

// GetProperty handles GET /api/v1/properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.properties.GetProperty(c.Request.Context(), id)
	if err != nil {
		log.WithRequestID(c.Request.Context()).WithError(err).WithField("property_id", id).Error("failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}

	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, h.cards.Property(*property))
}
