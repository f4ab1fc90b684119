// Package booking implements the appointment slot-filling state machine.
// The awaiting field of the dialogue context is the persisted state; each
// call advances it by at most one slot, or books the visit once every slot
// is filled.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/nlu"
)

const (
	maxListedTimes     = 10
	conversionTimeout  = 3 * time.Second
	defaultAgentName   = "an advisor"
	exampleDateLayout  = time.DateOnly
	exampleDateDaysOut = 7
)

// Scheduler is the scheduling collaborator.
type Scheduler interface {
	AvailableTimes(ctx context.Context, date string) ([]string, error)
	CreateAppointment(ctx context.Context, req model.AppointmentRequest) (model.AppointmentResult, error)
}

// Catalog finds a fallback reference when the conversation has none.
type Catalog interface {
	SearchProperties(ctx context.Context, q model.PropertyQuery) ([]model.PropertySummary, error)
	SearchProjects(ctx context.Context, q model.ProjectQuery) ([]model.ProjectSummary, error)
}

// ConversionRecorder marks a conversation as converted.
type ConversionRecorder interface {
	MarkConverted(ctx context.Context, conversationID string, appointmentID int64) error
}

// Turn is one booking step.
type Turn struct {
	Text           string
	Context        *model.DialogueContext
	ConversationID string
	// NamePrompt replaces the default opening request for the name.
	NamePrompt string
}

// Machine drives the booking conversation.
type Machine struct {
	scheduler Scheduler
	catalog   Catalog
	recorder  ConversionRecorder
	now       func() time.Time
}

// NewMachine creates a new booking machine. recorder may be nil.
func NewMachine(scheduler Scheduler, catalog Catalog, recorder ConversionRecorder) *Machine {
	return &Machine{
		scheduler: scheduler,
		catalog:   catalog,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Handle runs one booking turn. It never fails: collaborator errors become
// user-facing sentences and the returned context keeps every captured slot.
func (m *Machine) Handle(ctx context.Context, turn Turn) model.Reply {
	dc := turn.Context.Clone()

	if dc.Done && dc.AppointmentID > 0 {
		return reply("Your visit is already booked. If you'd like to book another one, please start a new conversation.", dc)
	}
	dc.Done = false

	awaiting := dc.Awaiting
	if r, ok := m.fillAwaited(turn.Text, dc); !ok {
		return r
	}
	fillOthers(turn.Text, awaiting, dc)

	return m.advance(ctx, turn, dc, awaiting)
}

// fillAwaited validates the answer to the slot that was asked for. It returns
// false with a re-prompt when the answer does not contain a valid value.
func (m *Machine) fillAwaited(text string, dc *model.DialogueContext) (model.Reply, bool) {
	switch dc.Awaiting {
	case model.AwaitingName:
		name := nlu.ExtractName(text, true)
		if name == "" {
			fillOthers(text, model.AwaitingName, dc)
			return reply("I didn't catch your name. Could you write it for me? (e.g. Maria Lopez)", dc), false
		}
		dc.Name = name
	case model.AwaitingEmail:
		email := nlu.ExtractEmail(text)
		if email == "" {
			return reply("Please type your email (e.g. name@mail.com) so we can send you the appointment confirmation.", dc), false
		}
		dc.Email = email
	case model.AwaitingPhone:
		phone := nlu.ExtractPhone(text, true)
		if phone == "" {
			return reply(fmt.Sprintf("Please type your mobile number with %d to %d digits (e.g. 3001234567) to confirm the visit.",
				nlu.MinPhoneDigits, nlu.MaxPhoneDigits), dc), false
		}
		dc.Phone = phone
	case model.AwaitingDate:
		date := nlu.ExtractDate(text)
		if date == "" {
			return reply(fmt.Sprintf("I couldn't read that date. Please use the format YYYY-MM-DD (e.g. %s) or DD/MM/YYYY.", m.exampleDate()), dc), false
		}
		dc.VisitDate = date
		dc.VisitTime = ""
	case model.AwaitingTime:
		if t := nlu.ExtractTime(text); t != "" {
			dc.VisitTime = t
		}
	}
	return model.Reply{}, true
}

// fillOthers picks up any other booking field present in the text. Contact
// fields already captured are kept; a new date or time replaces the old one.
func fillOthers(text string, awaiting model.Awaiting, dc *model.DialogueContext) {
	if awaiting != model.AwaitingName {
		if name := nlu.ExtractName(text, false); name != "" {
			dc.Name = name
		}
	}
	if awaiting != model.AwaitingEmail && dc.Email == "" {
		dc.Email = nlu.ExtractEmail(text)
	}
	if awaiting != model.AwaitingPhone && dc.Phone == "" {
		dc.Phone = nlu.ExtractPhone(text, false)
	}
	if awaiting != model.AwaitingDate && awaiting != model.AwaitingTime {
		if date := nlu.ExtractDate(text); date != "" && date != dc.VisitDate {
			dc.VisitDate = date
			dc.VisitTime = ""
		}
	}
	if awaiting != model.AwaitingTime {
		if t := nlu.ExtractTime(text); t != "" {
			dc.VisitTime = t
		}
	}
}

// advance asks for the next empty slot, or books the visit when none is left.
func (m *Machine) advance(ctx context.Context, turn Turn, dc *model.DialogueContext, previous model.Awaiting) model.Reply {
	switch {
	case dc.Name == "":
		dc.Awaiting = model.AwaitingName
		prompt := strings.TrimSpace(turn.NamePrompt)
		if prompt == "" {
			prompt = "To book the visit I need a few details. What is your name?"
		}
		return reply(prompt+"\n\n(After that I'll ask for your email and phone to confirm.)", dc)

	case dc.Email == "":
		dc.Awaiting = model.AwaitingEmail
		if previous == model.AwaitingName {
			return reply(fmt.Sprintf("Thanks, %s. What is your email address? (so we can send you the confirmation)", firstName(dc.Name)), dc)
		}
		return reply("What is your email? That way we can send you the appointment confirmation.", dc)

	case dc.Phone == "":
		dc.Awaiting = model.AwaitingPhone
		return reply("Perfect. What number can we reach you at? (mobile)", dc)

	case dc.VisitDate == "":
		dc.Awaiting = model.AwaitingDate
		return reply(fmt.Sprintf("What date works for you? (format: YYYY-MM-DD, e.g. %s)", m.exampleDate()), dc)
	}

	times, err := m.scheduler.AvailableTimes(ctx, dc.VisitDate)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("date", dc.VisitDate).Warn("availability lookup failed")
		dc.Awaiting = model.AwaitingDate
		return reply("I couldn't check availability right now. Could you send me the date again in a moment? (YYYY-MM-DD)", dc)
	}
	times = normalizeTimes(times)
	if len(times) == 0 {
		dc.VisitDate = ""
		dc.VisitTime = ""
		dc.Awaiting = model.AwaitingDate
		return reply("There are no available times on that day. Could you try another date? (YYYY-MM-DD)", dc)
	}

	if dc.VisitTime == "" {
		dc.Awaiting = model.AwaitingTime
		if previous == model.AwaitingTime {
			return timesReply(fmt.Sprintf("Please pick one of the available times (e.g. %s): %s.", times[0], listTimes(times)), times, dc)
		}
		return timesReply(fmt.Sprintf("Available times on %s: %s. Which one do you prefer?", dc.VisitDate, listTimes(times)), times, dc)
	}
	if !contains(times, dc.VisitTime) {
		dc.VisitTime = ""
		dc.Awaiting = model.AwaitingTime
		return timesReply(fmt.Sprintf("That time isn't available. Options: %s. Which one do you prefer?", listTimes(times)), times, dc)
	}

	dc.Awaiting = model.AwaitingNone
	return m.book(ctx, turn.ConversationID, dc)
}

// book resolves the reference and makes exactly one creation call.
func (m *Machine) book(ctx context.Context, conversationID string, dc *model.DialogueContext) model.Reply {
	kind, id, ok := m.reference(ctx, dc)
	if !ok {
		return reply("There are no properties or projects available to book right now. Please contact us by phone and we'll gladly help you.",
			&model.DialogueContext{})
	}

	result, err := m.scheduler.CreateAppointment(ctx, model.AppointmentRequest{
		Name:          dc.Name,
		Phone:         dc.Phone,
		Email:         dc.Email,
		ReferenceKind: kind,
		ReferenceID:   id,
		Date:          dc.VisitDate,
		Time:          dc.VisitTime,
	})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("appointment creation failed")
		return reply("I couldn't book the appointment right now. Please try again in a moment or contact us by phone.", dc)
	}
	if !result.Success || result.AppointmentID <= 0 {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = "I couldn't book the appointment. Please try again or contact us by phone."
		}
		return reply(msg, dc)
	}

	m.markConverted(ctx, conversationID, result.AppointmentID)

	agent := strings.TrimSpace(result.AgentName)
	if agent == "" {
		agent = defaultAgentName
	}
	text := fmt.Sprintf("All set! 📅 Your visit is booked for %s at %s. %s will be waiting for you. If anything changes, just write to us.",
		dc.VisitDate, dc.VisitTime, capitalize(agent))
	return reply(text, &model.DialogueContext{Done: true, AppointmentID: result.AppointmentID})
}

// reference returns the conversation's reference, or a general-visit
// reference: the first active project, else the first active property.
func (m *Machine) reference(ctx context.Context, dc *model.DialogueContext) (model.ReferenceKind, int64, bool) {
	if dc.HasReference() {
		return dc.ReferenceKind, dc.ReferenceID, true
	}

	projects, err := m.catalog.SearchProjects(ctx, model.ProjectQuery{Limit: 1})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("fallback project lookup failed")
	}
	if len(projects) > 0 {
		return model.ReferenceProject, projects[0].ID, true
	}

	props, err := m.catalog.SearchProperties(ctx, model.PropertyQuery{Limit: 1})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("fallback property lookup failed")
	}
	if len(props) > 0 {
		return model.ReferenceProperty, props[0].ID, true
	}
	return "", 0, false
}

func (m *Machine) markConverted(ctx context.Context, conversationID string, appointmentID int64) {
	if m.recorder == nil || conversationID == "" {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), conversionTimeout)
	defer cancel()
	if err := m.recorder.MarkConverted(cctx, conversationID, appointmentID); err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("conversation_id", conversationID).Warn("failed to mark conversion")
	}
}

func (m *Machine) exampleDate() string {
	return m.now().AddDate(0, 0, exampleDateDaysOut).Format(exampleDateLayout)
}

func reply(text string, dc *model.DialogueContext) model.Reply {
	return model.Reply{Text: text, Actions: []model.Action{}, Context: dc}
}

func timesReply(text string, times []string, dc *model.DialogueContext) model.Reply {
	r := reply(text, dc)
	r.Actions = []model.Action{{Type: model.ActionAvailableTimes, Times: times}}
	return r
}

// normalizeTimes rewrites the scheduler's times as HH:MM and drops
// anything unreadable.
func normalizeTimes(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if n := nlu.ExtractTime(t); n != "" && !contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func listTimes(times []string) string {
	if len(times) > maxListedTimes {
		times = times[:maxListedTimes]
	}
	return strings.Join(times, ", ")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
