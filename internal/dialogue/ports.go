package dialogue

import (
	"context"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

// Catalog is everything the handlers read about properties and projects.
type Catalog interface {
	SearchProperties(ctx context.Context, q model.PropertyQuery) ([]model.PropertySummary, error)
	SearchProjects(ctx context.Context, q model.ProjectQuery) ([]model.ProjectSummary, error)
	GetProperty(ctx context.Context, id int64) (*model.PropertySummary, error)
	// SimilarProperties returns active properties ordered by embedding
	// distance to id. It returns nothing when id has no embedding.
	SimilarProperties(ctx context.Context, id int64, excludeIDs []int64, limit int) ([]model.PropertySummary, error)
}

// FAQMatcher scores stored FAQs against a question.
type FAQMatcher interface {
	MatchFAQ(ctx context.Context, text string, limit int) ([]model.FAQ, error)
}

// Settings reads admin-editable texts. A missing key yields "" and no error.
type Settings interface {
	Get(ctx context.Context, key string) (string, error)
}

// ConversationLog records conversions and answered questions.
type ConversationLog interface {
	MarkConverted(ctx context.Context, conversationID string, appointmentID int64) error
	LogQuestion(ctx context.Context, conversationID, text string, intent model.Intent, faqID *int64) error
}

// Scheduler is the scheduling collaborator.
type Scheduler interface {
	AvailableTimes(ctx context.Context, date string) ([]string, error)
	CreateAppointment(ctx context.Context, req model.AppointmentRequest) (model.AppointmentResult, error)
}

// Rewriter turns a draft into a more natural reply. Any error means the
// draft is kept.
type Rewriter interface {
	Rewrite(ctx context.Context, req model.RewriteRequest) (string, error)
}

// Setting keys
const (
	SettingGreeting       = "greeting"
	SettingFarewell       = "farewell"
	SettingBookingMessage = "booking_message"
	SettingSystemPrompt   = "system_prompt"
	SettingLocationAnswer = "location_answer"
	SettingAboutAnswer    = "about_answer"
	SettingNamePrompt     = "booking_name_prompt"
)
