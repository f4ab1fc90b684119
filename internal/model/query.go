package model

// ChatRequest represents one inbound chat turn
type ChatRequest struct {
	Message       string           `json:"message" binding:"required,min=1,max=2000"`
	SessionID     string           `json:"session_id,omitempty" binding:"omitempty,max=64,session_id"`
	Context       *DialogueContext `json:"context,omitempty"`
	ReferenceKind string           `json:"reference_kind,omitempty" binding:"omitempty,oneof=property project"`
	ReferenceID   int64            `json:"reference_id,omitempty" binding:"omitempty,min=1"`
}

// ChatResponse represents the reply to a chat turn
type ChatResponse struct {
	Text      string           `json:"text"`
	Actions   []Action         `json:"actions"`
	Cards     []Card           `json:"cards,omitempty"`
	Context   *DialogueContext `json:"context"`
	SessionID string           `json:"session_id"`
	Intent    Intent           `json:"intent"`
	Rewritten bool             `json:"rewritten"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding for a property
type EmbeddingItem struct {
	PropertyID int64     `json:"property_id" binding:"required"`
	Embedding  []float32 `json:"embedding" binding:"required"`
	Text       string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents a user action on a card
type FeedbackRequest struct {
	SessionID     string `json:"session_id" binding:"required,max=64,session_id"`
	ReferenceKind string `json:"reference_kind" binding:"required,oneof=property project"`
	ReferenceID   int64  `json:"reference_id" binding:"required,min=1"`
	Action        string `json:"action" binding:"required"`
}

// FeedbackResponse represents feedback submission response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
