package model

import (
	"encoding/json"
	"strings"
)

// MaxShownProperties caps DialogueContext.ShownPropertyIDs.
const MaxShownProperties = 10

// Awaiting is the next booking slot the state machine expects.
type Awaiting string

const (
	AwaitingNone  Awaiting = ""
	AwaitingName  Awaiting = "name"
	AwaitingEmail Awaiting = "email"
	AwaitingPhone Awaiting = "phone"
	AwaitingDate  Awaiting = "date"
	AwaitingTime  Awaiting = "time"
)

// UnmarshalJSON accepts "none", null and unknown values as AwaitingNone.
func (a *Awaiting) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = AwaitingNone
		return nil
	}
	switch v := Awaiting(strings.ToLower(strings.TrimSpace(s))); v {
	case AwaitingName, AwaitingEmail, AwaitingPhone, AwaitingDate, AwaitingTime:
		*a = v
	default:
		*a = AwaitingNone
	}
	return nil
}

// ReferenceKind tells whether a reference points at a property or a project.
type ReferenceKind string

const (
	ReferenceProperty ReferenceKind = "property"
	ReferenceProject  ReferenceKind = "project"
)

// Valid reports whether k is one of the known kinds.
func (k ReferenceKind) Valid() bool {
	return k == ReferenceProperty || k == ReferenceProject
}

// DialogueContext is the slot bag the caller round-trips between turns.
// Handlers never mutate the context they receive; they return a new one.
type DialogueContext struct {
	PropertyType PropertyType `json:"property_type,omitempty"`
	BudgetMin    *float64     `json:"budget_min,omitempty"`
	BudgetMax    *float64     `json:"budget_max,omitempty"`
	RoomCount    *int         `json:"room_count,omitempty"`
	Location     string       `json:"location,omitempty"`

	ReferenceKind    ReferenceKind `json:"reference_kind,omitempty"`
	ReferenceID      int64         `json:"reference_id,omitempty"`
	ShownPropertyIDs []int64       `json:"shown_property_ids,omitempty"`

	Awaiting  Awaiting `json:"awaiting,omitempty"`
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	VisitDate string   `json:"visit_date,omitempty"`
	VisitTime string   `json:"visit_time,omitempty"`

	Done          bool  `json:"done,omitempty"`
	AppointmentID int64 `json:"appointment_id,omitempty"`

	LastUserMessage string `json:"last_user_message,omitempty"`
	LastBotMessage  string `json:"last_bot_message,omitempty"`
}

// Clone returns a deep copy. A nil receiver yields an empty context.
func (c *DialogueContext) Clone() *DialogueContext {
	if c == nil {
		return &DialogueContext{}
	}
	out := *c
	if c.BudgetMin != nil {
		v := *c.BudgetMin
		out.BudgetMin = &v
	}
	if c.BudgetMax != nil {
		v := *c.BudgetMax
		out.BudgetMax = &v
	}
	if c.RoomCount != nil {
		v := *c.RoomCount
		out.RoomCount = &v
	}
	if c.ShownPropertyIDs != nil {
		out.ShownPropertyIDs = append([]int64(nil), c.ShownPropertyIDs...)
	}
	return &out
}

// HasReference reports whether the conversation is focused on an item.
func (c *DialogueContext) HasReference() bool {
	return c != nil && c.ReferenceKind.Valid() && c.ReferenceID > 0
}

// SetReference points the conversation at an item.
func (c *DialogueContext) SetReference(kind ReferenceKind, id int64) {
	c.ReferenceKind = kind
	c.ReferenceID = id
}

// ClearReference drops the current reference.
func (c *DialogueContext) ClearReference() {
	c.ReferenceKind = ""
	c.ReferenceID = 0
}

// RememberShown appends ids to ShownPropertyIDs. An id already present moves to
// the most recent position; only the last MaxShownProperties ids are kept.
func (c *DialogueContext) RememberShown(ids ...int64) {
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		kept := c.ShownPropertyIDs[:0:0]
		for _, existing := range c.ShownPropertyIDs {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		c.ShownPropertyIDs = append(kept, id)
	}
	if n := len(c.ShownPropertyIDs); n > MaxShownProperties {
		c.ShownPropertyIDs = append([]int64(nil), c.ShownPropertyIDs[n-MaxShownProperties:]...)
	}
}

// WasShown reports whether id is in ShownPropertyIDs.
func (c *DialogueContext) WasShown(id int64) bool {
	for _, existing := range c.ShownPropertyIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// ApplyEntities copies every non-empty extracted value into the context.
// Empty values never clear an existing slot.
func (c *DialogueContext) ApplyEntities(e ExtractedEntities) {
	if e.PropertyType != "" {
		c.PropertyType = e.PropertyType
	}
	if e.BudgetMin != nil {
		v := *e.BudgetMin
		c.BudgetMin = &v
	}
	if e.BudgetMax != nil {
		v := *e.BudgetMax
		c.BudgetMax = &v
	}
	if e.RoomCount != nil {
		v := *e.RoomCount
		c.RoomCount = &v
	}
	if e.Location != "" {
		c.Location = e.Location
	}
}
