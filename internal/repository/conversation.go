package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"github.com/google/uuid"
)

// Message roles
const (
	RoleUser  = "user"
	RoleBot   = "bot"
	RoleEvent = "event"
)

const maxLoggedQuestionRunes = 2000

// NewConversationID returns a 32-character hex id.
func NewConversationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StartConversation creates a conversation and returns its id.
func (r *PostgresRepository) StartConversation(ctx context.Context, origin string) (string, error) {
	id := NewConversationID()
	if origin == "" {
		origin = "web"
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO chatbot_conversations (id, origin) VALUES ($1, $2)`, id, origin)
	if err != nil {
		return "", fmt.Errorf("failed to start conversation: %w", err)
	}
	return id, nil
}

// AppendMessage stores one message and bumps the conversation's last
// activity. Conversations unknown to this database are created on the fly.
func (r *PostgresRepository) AppendMessage(ctx context.Context, conversationID, role, content string, metadata map[string]any) error {
	var meta interface{}
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode message metadata: %w", err)
		}
		meta = string(b)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chatbot_conversations (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET last_message_at = NOW()
	`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chatbot_messages (conversation_id, role, content, metadata)
		VALUES ($1, $2, $3, $4)
	`, conversationID, role, content, meta)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// MarkConverted records that the conversation ended in a booked appointment.
func (r *PostgresRepository) MarkConverted(ctx context.Context, conversationID string, appointmentID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chatbot_conversations SET converted = true, appointment_id = $1 WHERE id = $2`,
		appointmentID, conversationID)
	if err != nil {
		return fmt.Errorf("failed to mark conversion: %w", err)
	}
	return nil
}

// LogQuestion stores a user question for analytics, with the FAQ that
// answered it when there was one.
func (r *PostgresRepository) LogQuestion(ctx context.Context, conversationID, text string, intent model.Intent, faqID *int64) error {
	if runes := []rune(text); len(runes) > maxLoggedQuestionRunes {
		text = string(runes[:maxLoggedQuestionRunes])
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chatbot_question_log (conversation_id, user_text, intent, faq_id)
		VALUES ($1, $2, $3, $4)
	`, nullString(conversationID), text, nullString(string(intent)), faqID)
	if err != nil {
		return fmt.Errorf("failed to log question: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
