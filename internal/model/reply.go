package model

// Tier is the relaxation level that produced a reasoning result.
type Tier string

const (
	TierExact   Tier = "exact"
	TierRelaxed Tier = "relaxed"
	TierBroad   Tier = "broad"
	TierNone    Tier = "none"
)

// ReasoningFilters is the input of the reasoning engine.
type ReasoningFilters struct {
	PropertyType  PropertyType
	BudgetMin     *float64
	BudgetMax     *float64
	Rooms         *int
	Location      string
	WantsProjects bool
}

// ReasoningResult is the outcome of a tiered search.
type ReasoningResult struct {
	Tier       Tier              `json:"tier"`
	Properties []PropertySummary `json:"properties"`
	Projects   []ProjectSummary  `json:"projects"`
	Narrative  string            `json:"narrative"`
}

// CardType distinguishes property and project cards.
type CardType string

const (
	CardProperty CardType = "property"
	CardProject  CardType = "project"
)

// Card is a structured summary of one property or project for UI rendering.
type Card struct {
	Type         CardType `json:"type"`
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	PropertyType string   `json:"property_type,omitempty"`
	Location     string   `json:"location"`
	Price        string   `json:"price,omitempty"`
	PriceFrom    string   `json:"price_from,omitempty"`
	Rooms        *int     `json:"rooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Image        *string  `json:"image"`
}

// Action is a UI hint attached to a reply, e.g. the list of bookable times.
type Action struct {
	Type  string   `json:"type"`
	Times []string `json:"times,omitempty"`
}

// ActionAvailableTimes carries the scheduler's free slots for a date.
const ActionAvailableTimes = "available_times"

// Reply is what a handler produces and the dispatcher returns.
type Reply struct {
	Text      string           `json:"text"`
	Actions   []Action         `json:"actions"`
	Cards     []Card           `json:"cards,omitempty"`
	Context   *DialogueContext `json:"context"`
	Intent    Intent           `json:"intent"`
	Rewritten bool             `json:"rewritten"`
}

// AppointmentRequest is built once every booking slot is filled.
type AppointmentRequest struct {
	Name          string
	Phone         string
	Email         string
	ReferenceKind ReferenceKind
	ReferenceID   int64
	Date          string
	Time          string
}

// AppointmentResult is the scheduling collaborator's answer.
type AppointmentResult struct {
	Success       bool   `json:"success"`
	AppointmentID int64  `json:"appointment_id,omitempty"`
	AgentName     string `json:"agent,omitempty"`
	Message       string `json:"message,omitempty"`
}

// RewriteRequest is the input of the text-rewriting collaborator.
type RewriteRequest struct {
	UserText        string
	Draft           string
	Intent          Intent
	DataSummary     string
	LastUserMessage string
	LastBotMessage  string
	SystemPrompt    string
}
