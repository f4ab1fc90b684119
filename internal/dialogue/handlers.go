package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/booking"
	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/nlu"
	"github.com/Santiagodiaz04/chatbot-api/internal/reasoning"
)

const (
	infoFAQLimit       = 3
	generalFAQLimit    = 2
	subjectPropLimit   = 6
	subjectProjLimit   = 4
	similarLimit       = 4
	shownPerSearch     = 4
	compareSummaryRows = 4
)

const (
	defaultGreeting       = "Hi! I'm the virtual assistant. I can show you houses, apartments, lots or rentals, tell you about our projects and book a visit for you. What are you looking for?"
	defaultFarewell       = "Thanks for reaching out. I'll be here whenever you need me. Have a great day! 🙂"
	defaultBookingMessage = "Would you like to book a visit? I just need your name, email and phone to confirm it."
	defaultLocationAnswer = "You can visit us at our office or book a visit to any property and an advisor will meet you there. Would you like to book one?"
	defaultAboutAnswer    = "We are a real estate company with properties for sale and rent, lots and new projects. I can show you options or book a visit for you."
	detailsAnswer         = "I don't have that detail here, but an advisor can tell you everything during a visit. Shall I show you options or book a visit?"
	capabilitiesAnswer    = "I can help you with properties (sale, rent, lots), projects, visiting hours or booking visits. What would you like to know?"
	generalAnswer         = "How can I help you? I can show you properties (sale, rent, lots), projects or book a visit."
	subjectNotFound       = "I couldn't find properties or projects with that name. Are you looking in another area, or would you like me to show you general options?"
	followupUnavailable   = "That property is no longer available. Would you like me to show you other options?"
	followupLookupFailed  = "I couldn't look that up right now. Would you like me to show you other options or book a visit?"
	advisorConfirms       = "An advisor can confirm that detail during the visit."
)

func (d *Dispatcher) greeting(ctx context.Context, dc *model.DialogueContext) model.Reply {
	return model.Reply{
		Text:    d.setting(ctx, SettingGreeting, defaultGreeting),
		Context: dc,
	}
}

func (d *Dispatcher) farewell(ctx context.Context, dc *model.DialogueContext) model.Reply {
	dc.Done = true
	return model.Reply{
		Text:    d.setting(ctx, SettingFarewell, defaultFarewell),
		Context: dc,
	}
}

// searchProperty merges the turn's entities over the context and runs the
// reasoning engine with the combined filters.
func (d *Dispatcher) searchProperty(ctx context.Context, text string, dc *model.DialogueContext) model.Reply {
	dc.ApplyEntities(nlu.Extract(text))

	res := d.engine.Run(ctx, model.ReasoningFilters{
		PropertyType:  dc.PropertyType,
		BudgetMin:     dc.BudgetMin,
		BudgetMax:     dc.BudgetMax,
		Rooms:         dc.RoomCount,
		Location:      dc.Location,
		WantsProjects: nlu.WantsProjects(text),
	})
	reasoningTierTotal.WithLabelValues(string(res.Tier)).Inc()

	projects := reasoning.ProjectsWithinBudget(res.Projects, dc.BudgetMax)
	cards := d.cards.Cards(res.Properties, projects)

	reply := res.Narrative
	if len(cards) > 0 {
		reply += "\n\n" + d.setting(ctx, SettingBookingMessage, defaultBookingMessage)
	}
	d.pointAt(dc, res.Properties, projects)

	return model.Reply{Text: reply, Cards: cards, Context: dc}
}

// pointAt makes the first result the reference and records the shown
// properties.
func (d *Dispatcher) pointAt(dc *model.DialogueContext, props []model.PropertySummary, projects []model.ProjectSummary) {
	switch {
	case len(props) > 0:
		dc.SetReference(model.ReferenceProperty, props[0].ID)
	case len(projects) > 0:
		dc.SetReference(model.ReferenceProject, projects[0].ID)
	}
	for i, p := range props {
		if i == shownPerSearch {
			break
		}
		dc.RememberShown(p.ID)
	}
}

func (d *Dispatcher) propertyFollowup(ctx context.Context, req Request, dc *model.DialogueContext) model.Reply {
	if dc.ReferenceKind != model.ReferenceProperty || dc.ReferenceID <= 0 {
		return d.generalQuestion(ctx, req, dc)
	}

	p, err := d.catalog.GetProperty(ctx, dc.ReferenceID)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("property_id", dc.ReferenceID).Warn("failed to load referenced property")
		return model.Reply{Text: followupLookupFailed, Context: dc}
	}
	if p == nil {
		dc.ClearReference()
		return model.Reply{Text: followupUnavailable, Context: dc}
	}

	text := followupAnswer(nlu.QuestionTopic(req.Text), *p) + " " + d.setting(ctx, SettingBookingMessage, defaultBookingMessage)
	return model.Reply{
		Text:    text,
		Cards:   []model.Card{d.cards.Property(*p)},
		Context: dc,
	}
}

func followupAnswer(topic nlu.Topic, p model.PropertySummary) string {
	switch topic {
	case nlu.TopicBathrooms:
		if p.Bathrooms != nil {
			return fmt.Sprintf("It has %s.", plural(*p.Bathrooms, "bathroom"))
		}
		return advisorConfirms
	case nlu.TopicRooms:
		if p.Rooms != nil {
			return fmt.Sprintf("It has %s.", plural(*p.Rooms, "room"))
		}
		return advisorConfirms
	case nlu.TopicArea:
		if p.BuiltArea != nil && *p.BuiltArea > 0 {
			return fmt.Sprintf("It has %.0f m² of built area.", *p.BuiltArea)
		}
		if p.TotalArea != nil && *p.TotalArea > 0 {
			return fmt.Sprintf("It has %.0f m² in total.", *p.TotalArea)
		}
		return advisorConfirms
	case nlu.TopicPrice:
		if price := reasoning.PriceLabel(p.Price); price != "" {
			return fmt.Sprintf("Its price is %s.", price)
		}
		return advisorConfirms
	}

	var parts []string
	if p.Rooms != nil {
		parts = append(parts, plural(*p.Rooms, "room"))
	}
	if p.Bathrooms != nil {
		parts = append(parts, plural(*p.Bathrooms, "bathroom"))
	}
	if price := reasoning.PriceLabel(p.Price); price != "" {
		parts = append(parts, price)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("**%s** stands out for being %s.", p.Title, reasoning.BenefitText(p))
	}
	return fmt.Sprintf("**%s** has: %s.", p.Title, strings.Join(parts, ", "))
}

// recommendation prefers properties similar to the one in focus and falls
// back to a type and location search.
func (d *Dispatcher) recommendation(ctx context.Context, dc *model.DialogueContext) model.Reply {
	if dc.ReferenceKind == model.ReferenceProperty && dc.ReferenceID > 0 {
		exclude := append([]int64{dc.ReferenceID}, dc.ShownPropertyIDs...)
		similar, err := d.catalog.SimilarProperties(ctx, dc.ReferenceID, exclude, similarLimit)
		if err != nil {
			log.WithRequestID(ctx).WithError(err).Warn("similar properties lookup failed")
		}
		if len(similar) > 0 {
			cards := d.cards.Cards(similar, nil)
			for _, p := range similar {
				dc.RememberShown(p.ID)
			}
			text := "Based on the one you saw, I'd recommend these similar options:\n\n" + d.setting(ctx, SettingBookingMessage, defaultBookingMessage)
			return model.Reply{Text: text, Cards: cards, Context: dc}
		}
	}

	res := d.broadSearch(ctx, dc)
	cards := d.cards.Cards(res.Properties, res.Projects)
	text := res.Narrative
	if len(cards) > 0 {
		text += "\n\n" + d.setting(ctx, SettingBookingMessage, defaultBookingMessage)
	}
	return model.Reply{Text: text, Cards: cards, Context: dc}
}

func (d *Dispatcher) compareOptions(ctx context.Context, dc *model.DialogueContext) model.Reply {
	res := d.broadSearch(ctx, dc)
	cards := d.cards.Cards(res.Properties, res.Projects)

	text := res.Narrative
	if rows := compareRows(res.Properties); rows != "" {
		text += "\n\nHere is how they compare:\n" + rows
	}
	if len(cards) > 0 {
		text += "\n\n" + d.setting(ctx, SettingBookingMessage, defaultBookingMessage)
	}
	return model.Reply{Text: text, Cards: cards, Context: dc}
}

// broadSearch runs the reasoning engine with type and location only.
func (d *Dispatcher) broadSearch(ctx context.Context, dc *model.DialogueContext) model.ReasoningResult {
	res := d.engine.Run(ctx, model.ReasoningFilters{
		PropertyType: dc.PropertyType,
		Location:     dc.Location,
	})
	reasoningTierTotal.WithLabelValues(string(res.Tier)).Inc()
	return res
}

func compareRows(props []model.PropertySummary) string {
	var rows []string
	for i, p := range props {
		if i == compareSummaryRows {
			break
		}
		fields := []string{}
		if p.Rooms != nil {
			fields = append(fields, plural(*p.Rooms, "room"))
		}
		if area := p.Area(); area != nil && *area > 0 {
			fields = append(fields, fmt.Sprintf("%.0f m²", *area))
		}
		if price := reasoning.PriceLabel(p.Price); price != "" {
			fields = append(fields, price)
		}
		if p.Location != "" {
			fields = append(fields, p.Location)
		}
		rows = append(rows, fmt.Sprintf("- **%s**: %s", p.Title, strings.Join(fields, ", ")))
	}
	return strings.Join(rows, "\n")
}

// information answers from the FAQ first, then by searching a named subject,
// then with canned answers.
func (d *Dispatcher) information(ctx context.Context, req Request, dc *model.DialogueContext) model.Reply {
	if faq, ok := d.answerFromFAQ(ctx, req, model.IntentRequestInformation, infoFAQLimit); ok {
		return model.Reply{Text: faq, Context: dc}
	}

	if subject := nlu.InfoSubject(req.Text); subject != "" {
		return d.subjectInformation(ctx, subject, dc)
	}

	if text, ok := d.cannedAnswer(ctx, req.Text); ok {
		return model.Reply{Text: text, Context: dc}
	}
	return model.Reply{Text: capabilitiesAnswer, Context: dc}
}

func (d *Dispatcher) subjectInformation(ctx context.Context, subject string, dc *model.DialogueContext) model.Reply {
	props, err := d.catalog.SearchProperties(ctx, model.PropertyQuery{
		Location: subject,
		Title:    subject,
		Limit:    subjectPropLimit,
	})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("subject", subject).Warn("subject property search failed")
	}
	projects, err := d.catalog.SearchProjects(ctx, model.ProjectQuery{Location: subject, Limit: subjectProjLimit})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).WithField("subject", subject).Warn("subject project search failed")
	}

	if len(props) == 0 && len(projects) == 0 {
		return model.Reply{Text: subjectNotFound, Context: dc}
	}

	var lines []string
	if len(props) > 0 {
		lines = append(lines, fmt.Sprintf("In **%s** we have these properties:", subject))
	}
	if len(projects) > 0 {
		if len(props) > 0 {
			lines = append(lines, fmt.Sprintf("And these projects in **%s**:", subject))
		} else {
			lines = append(lines, fmt.Sprintf("In **%s** we have these projects:", subject))
		}
	}
	lines = append(lines, "Would you like more details on any of them or to book a visit?")
	lines = append(lines, d.setting(ctx, SettingBookingMessage, defaultBookingMessage))

	dc.Location = subject
	d.pointAt(dc, props, projects)

	return model.Reply{
		Text:    strings.Join(lines, "\n\n"),
		Cards:   d.cards.Cards(props, projects),
		Context: dc,
	}
}

func (d *Dispatcher) generalQuestion(ctx context.Context, req Request, dc *model.DialogueContext) model.Reply {
	if faq, ok := d.answerFromFAQ(ctx, req, model.IntentGeneralQuestion, generalFAQLimit); ok {
		return model.Reply{Text: faq, Context: dc}
	}
	if text, ok := d.cannedAnswer(ctx, req.Text); ok {
		return model.Reply{Text: text, Context: dc}
	}
	return model.Reply{Text: generalAnswer, Context: dc}
}

// answerFromFAQ returns the best FAQ answer and logs the question either way.
func (d *Dispatcher) answerFromFAQ(ctx context.Context, req Request, intent model.Intent, limit int) (string, bool) {
	var faqs []model.FAQ
	if d.faq != nil {
		var err error
		faqs, err = d.faq.MatchFAQ(ctx, req.Text, limit)
		if err != nil {
			log.WithRequestID(ctx).WithError(err).Warn("faq match failed")
		}
	}

	if len(faqs) == 0 || strings.TrimSpace(faqs[0].Answer) == "" {
		d.logQuestion(ctx, req.ConversationID, req.Text, intent, nil)
		return "", false
	}

	id := faqs[0].ID
	d.logQuestion(ctx, req.ConversationID, req.Text, intent, &id)
	return strings.TrimSpace(faqs[0].Answer), true
}

func (d *Dispatcher) cannedAnswer(ctx context.Context, text string) (string, bool) {
	switch {
	case nlu.AsksLocation(text):
		return d.setting(ctx, SettingLocationAnswer, defaultLocationAnswer), true
	case nlu.AsksAboutUs(text):
		return d.setting(ctx, SettingAboutAnswer, defaultAboutAnswer), true
	case nlu.AsksDetails(text):
		return detailsAnswer, true
	}
	return "", false
}

// book hands the turn to the booking machine.
func (d *Dispatcher) book(ctx context.Context, req Request, dc *model.DialogueContext) model.Reply {
	alreadyBooked := dc.Done && dc.AppointmentID > 0

	reply := d.booking.Handle(ctx, booking.Turn{
		Text:           req.Text,
		Context:        dc,
		ConversationID: req.ConversationID,
		NamePrompt:     d.setting(ctx, SettingNamePrompt, ""),
	})

	if !alreadyBooked && reply.Context != nil && reply.Context.Done && reply.Context.AppointmentID > 0 {
		bookingsTotal.Inc()
	}
	return reply
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
