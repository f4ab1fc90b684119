package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestDispatcher(catalog *fakeCatalog, rewriter Rewriter, opts Options) (*Dispatcher, *fakeConversations, *fakeScheduler) {
	conversations := newFakeConversations()
	scheduler := &fakeScheduler{
		times:  []string{"09:00", "10:00"},
		result: model.AppointmentResult{Success: true, AppointmentID: 42, AgentName: "laura"},
	}
	if opts.SiteBaseURL == "" {
		opts.SiteBaseURL = "https://example.com"
	}
	d := NewDispatcher(Deps{
		Catalog:       catalog,
		FAQ:           &fakeFAQ{},
		Settings:      fakeSettings{},
		Conversations: conversations,
		Scheduler:     scheduler,
		Rewriter:      rewriter,
	}, opts)
	return d, conversations, scheduler
}

func TestDispatcher_SearchScenario(t *testing.T) {
	catalog := &fakeCatalog{props: []model.PropertySummary{
		property(1, "sale", 180_000_000, 3, "Pereira"),
		property(2, "sale", 250_000_000, 3, "Cali"),
		property(3, "rent", 1_500_000, 3, "Pereira"),
	}}
	d, _, _ := newTestDispatcher(catalog, nil, Options{})

	reply := d.Handle(context.Background(), Request{Text: "I'm looking for a 3-room house under 200 million"})

	if reply.Intent != model.IntentSearchProperty {
		t.Fatalf("Intent = %q, want %q", reply.Intent, model.IntentSearchProperty)
	}
	if len(reply.Cards) != 1 || reply.Cards[0].ID != 1 {
		t.Fatalf("Cards = %+v, want only property 1", reply.Cards)
	}
	dc := reply.Context
	if dc.PropertyType != model.PropertyTypeSale {
		t.Errorf("PropertyType = %q, want sale", dc.PropertyType)
	}
	if dc.RoomCount == nil || *dc.RoomCount != 3 {
		t.Errorf("RoomCount = %v, want 3", dc.RoomCount)
	}
	if dc.BudgetMax == nil || *dc.BudgetMax != 200_000_000 {
		t.Errorf("BudgetMax = %v, want 200000000", dc.BudgetMax)
	}
	if dc.ReferenceKind != model.ReferenceProperty || dc.ReferenceID != 1 {
		t.Errorf("reference = %s/%d, want property/1", dc.ReferenceKind, dc.ReferenceID)
	}
	if len(dc.ShownPropertyIDs) != 1 || dc.ShownPropertyIDs[0] != 1 {
		t.Errorf("ShownPropertyIDs = %v, want [1]", dc.ShownPropertyIDs)
	}
	if !strings.Contains(reply.Text, defaultBookingMessage) {
		t.Errorf("Text = %q, want the booking invitation", reply.Text)
	}
	if reply.Cards[0].URL != "https://example.com/?page=property&slug=property-pereira" {
		t.Errorf("URL = %q", reply.Cards[0].URL)
	}
}

func TestDispatcher_DefaultsAndIntent(t *testing.T) {
	d, _, _ := newTestDispatcher(&fakeCatalog{}, nil, Options{})

	reply := d.Handle(context.Background(), Request{Text: "hi there"})

	if reply.Intent != model.IntentGreeting {
		t.Errorf("Intent = %q, want greeting", reply.Intent)
	}
	if reply.Context == nil {
		t.Fatal("Context is nil")
	}
	if reply.Actions == nil {
		t.Error("Actions is nil, want empty slice")
	}
	if reply.Text != defaultGreeting {
		t.Errorf("Text = %q, want default greeting", reply.Text)
	}
	if reply.Context.LastUserMessage != "hi there" || reply.Context.LastBotMessage != defaultGreeting {
		t.Errorf("previous exchange = %q / %q", reply.Context.LastUserMessage, reply.Context.LastBotMessage)
	}
}

func TestDispatcher_SettingsOverrideTexts(t *testing.T) {
	d := NewDispatcher(Deps{
		Catalog:  &fakeCatalog{},
		Settings: fakeSettings{SettingGreeting: "Welcome to the agency!", SettingFarewell: "  "},
	}, Options{})

	if got := d.Handle(context.Background(), Request{Text: "hello"}).Text; got != "Welcome to the agency!" {
		t.Errorf("greeting = %q", got)
	}

	reply := d.Handle(context.Background(), Request{Text: "thanks, bye"})
	if reply.Intent != model.IntentFarewell {
		t.Fatalf("Intent = %q, want farewell", reply.Intent)
	}
	if reply.Text != defaultFarewell {
		t.Errorf("blank setting should fall back, got %q", reply.Text)
	}
	if !reply.Context.Done {
		t.Error("farewell should set done")
	}
}

func TestDispatcher_InputContextIsNotMutated(t *testing.T) {
	catalog := &fakeCatalog{props: []model.PropertySummary{property(1, "sale", 100, 2, "Pereira")}}
	d, _, _ := newTestDispatcher(catalog, nil, Options{})

	in := &model.DialogueContext{Location: "Cali"}
	d.Handle(context.Background(), Request{Text: "houses in pereira", Context: in})

	if in.Location != "Cali" || in.ReferenceID != 0 || in.LastUserMessage != "" {
		t.Errorf("input context was modified: %+v", in)
	}
}

func TestDispatcher_Rewrite(t *testing.T) {
	catalog := &fakeCatalog{props: []model.PropertySummary{property(1, "sale", 180_000_000, 3, "Pereira")}}

	tests := []struct {
		name          string
		rewriter      *fakeRewriter
		maxChars      int
		wantRewritten bool
		wantText      string
	}{
		{name: "success", rewriter: &fakeRewriter{text: "  Great news, I found one!  "}, wantRewritten: true, wantText: "Great news, I found one!"},
		{name: "error keeps draft", rewriter: &fakeRewriter{err: errBoom}},
		{name: "empty output keeps draft", rewriter: &fakeRewriter{text: "   "}},
		{name: "too long keeps draft", rewriter: &fakeRewriter{text: "this is far too long"}, maxChars: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain, _, _ := newTestDispatcher(catalog, nil, Options{})
			draft := plain.Handle(context.Background(), Request{Text: "houses in pereira"})

			d, _, _ := newTestDispatcher(catalog, tt.rewriter, Options{MaxRewriteChars: tt.maxChars})
			reply := d.Handle(context.Background(), Request{Text: "houses in pereira"})

			if reply.Rewritten != tt.wantRewritten {
				t.Errorf("Rewritten = %v, want %v", reply.Rewritten, tt.wantRewritten)
			}
			want := draft.Text
			if tt.wantRewritten {
				want = tt.wantText
			}
			if reply.Text != want {
				t.Errorf("Text = %q, want %q", reply.Text, want)
			}
			if len(reply.Cards) != len(draft.Cards) || reply.Context.ReferenceID != draft.Context.ReferenceID {
				t.Errorf("rewrite changed cards or context")
			}
			if tt.rewriter.calls != 1 {
				t.Fatalf("rewriter calls = %d, want 1", tt.rewriter.calls)
			}
			if !strings.Contains(tt.rewriter.last.DataSummary, "- Property: Property Pereira") {
				t.Errorf("DataSummary = %q", tt.rewriter.last.DataSummary)
			}
			if tt.rewriter.last.Draft != draft.Text {
				t.Errorf("rewriter got draft %q, want %q", tt.rewriter.last.Draft, draft.Text)
			}
		})
	}
}

func TestDispatcher_RewriteSeesPreviousExchange(t *testing.T) {
	rw := &fakeRewriter{text: "ok"}
	d, _, _ := newTestDispatcher(&fakeCatalog{}, rw, Options{})

	first := d.Handle(context.Background(), Request{Text: "hello"})
	d.Handle(context.Background(), Request{Text: "who are you", Context: first.Context})

	if rw.last.LastUserMessage != "hello" || rw.last.LastBotMessage != "ok" {
		t.Errorf("previous exchange = %q / %q", rw.last.LastUserMessage, rw.last.LastBotMessage)
	}
}

func TestDispatcher_AnotherOptionNeverRepeats(t *testing.T) {
	catalog := &fakeCatalog{props: []model.PropertySummary{
		property(1, "sale", 100, 3, "Pereira"),
		property(2, "sale", 110, 2, "Pereira"),
		property(3, "sale", 120, 4, "Pereira"),
	}}
	d, _, _ := newTestDispatcher(catalog, nil, Options{})

	dc := &model.DialogueContext{
		PropertyType:     model.PropertyTypeSale,
		ReferenceKind:    model.ReferenceProperty,
		ReferenceID:      1,
		ShownPropertyIDs: []int64{1},
	}

	seen := map[int64]bool{1: true}
	for _, want := range []int64{2, 3} {
		reply := d.Handle(context.Background(), Request{Text: "show me another option", Context: dc})
		if reply.Intent != model.IntentRequestAnotherOption {
			t.Fatalf("Intent = %q, want another option", reply.Intent)
		}
		if len(reply.Cards) != 1 || reply.Cards[0].ID != want {
			t.Fatalf("Cards = %+v, want property %d", reply.Cards, want)
		}
		if seen[reply.Cards[0].ID] {
			t.Fatalf("property %d repeated", reply.Cards[0].ID)
		}
		seen[reply.Cards[0].ID] = true
		if reply.Context.ReferenceID != want {
			t.Errorf("ReferenceID = %d, want %d", reply.Context.ReferenceID, want)
		}
		if !strings.HasPrefix(reply.Text, "Sure, I also have **Property Pereira**.") {
			t.Errorf("Text = %q", reply.Text)
		}
		dc = reply.Context
	}

	reply := d.Handle(context.Background(), Request{Text: "show me another option", Context: dc})
	if reply.Text != optionsExhausted {
		t.Errorf("Text = %q, want exhausted message", reply.Text)
	}
	if len(reply.Cards) != 0 {
		t.Errorf("Cards = %+v, want none", reply.Cards)
	}
	if reply.Context.ReferenceID != 3 {
		t.Errorf("ReferenceID = %d, want unchanged 3", reply.Context.ReferenceID)
	}
	if got := reply.Context.ShownPropertyIDs; len(got) != 3 {
		t.Errorf("ShownPropertyIDs = %v, want three ids", got)
	}
}

func TestDispatcher_BookingThroughDispatcher(t *testing.T) {
	d, conversations, scheduler := newTestDispatcher(&fakeCatalog{}, nil, Options{})
	before := testutil.ToFloat64(bookingsTotal)

	dc := &model.DialogueContext{ReferenceKind: model.ReferenceProperty, ReferenceID: 7}
	turns := []struct {
		text         string
		wantIntent   model.Intent
		wantAwaiting model.Awaiting
	}{
		{"I want to book a visit", model.IntentBookAppointment, model.AwaitingName},
		{"Maria Lopez", model.IntentConfirmBookingData, model.AwaitingEmail},
		{"maria@mail.com", model.IntentConfirmBookingData, model.AwaitingPhone},
		{"3001234567", model.IntentConfirmBookingData, model.AwaitingDate},
		{"2026-10-20", model.IntentBookAppointment, model.AwaitingTime},
		{"10:00", model.IntentBookAppointment, model.AwaitingNone},
	}

	var reply model.Reply
	for _, turn := range turns {
		reply = d.Handle(context.Background(), Request{Text: turn.text, Context: dc, ConversationID: "conv-1"})
		if reply.Intent != turn.wantIntent {
			t.Fatalf("%q: Intent = %q, want %q", turn.text, reply.Intent, turn.wantIntent)
		}
		if reply.Context.Awaiting != turn.wantAwaiting {
			t.Fatalf("%q: Awaiting = %q, want %q (text %q)", turn.text, reply.Context.Awaiting, turn.wantAwaiting, reply.Text)
		}
		dc = reply.Context
	}

	if !reply.Context.Done || reply.Context.AppointmentID != 42 {
		t.Fatalf("final context = %+v, want done with appointment 42", reply.Context)
	}
	if !strings.Contains(reply.Text, "2026-10-20 at 10:00") || !strings.Contains(reply.Text, "Laura") {
		t.Errorf("Text = %q", reply.Text)
	}
	if len(scheduler.created) != 1 {
		t.Fatalf("appointments created = %d, want 1", len(scheduler.created))
	}
	got := scheduler.created[0]
	if got.Name != "Maria Lopez" || got.Email != "maria@mail.com" || got.Phone != "3001234567" || got.ReferenceID != 7 {
		t.Errorf("appointment request = %+v", got)
	}
	if conversations.converted["conv-1"] != 42 {
		t.Errorf("conversion not recorded: %v", conversations.converted)
	}
	if delta := testutil.ToFloat64(bookingsTotal) - before; delta != 1 {
		t.Errorf("bookings counter delta = %v, want 1", delta)
	}

	again := d.Handle(context.Background(), Request{Text: "book a visit", Context: reply.Context, ConversationID: "conv-1"})
	if len(scheduler.created) != 1 {
		t.Errorf("resubmission created another appointment")
	}
	if again.Context.AppointmentID != 42 {
		t.Errorf("AppointmentID = %d, want 42", again.Context.AppointmentID)
	}
}

func TestDispatcher_PropertyFollowup(t *testing.T) {
	p := property(5, "sale", 210_000_000, 3, "Pereira")
	p.Bathrooms = intPtr(2)
	p.BuiltArea = float64Ptr(95)
	catalog := &fakeCatalog{props: []model.PropertySummary{p}}
	d, _, _ := newTestDispatcher(catalog, nil, Options{})

	tests := []struct {
		text string
		want string
	}{
		{"how many bathrooms does it have", "It has 2 bathrooms."},
		{"how big is it", "It has 95 m² of built area."},
		{"tell me more", "**Property Pereira** has: 3 rooms, 2 bathrooms, $210.0M."},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			dc := &model.DialogueContext{ReferenceKind: model.ReferenceProperty, ReferenceID: 5}
			reply := d.Handle(context.Background(), Request{Text: tt.text, Context: dc})
			if reply.Intent != model.IntentPropertyFollowupQuestion {
				t.Fatalf("Intent = %q, want follow-up", reply.Intent)
			}
			if !strings.HasPrefix(reply.Text, tt.want) {
				t.Errorf("Text = %q, want prefix %q", reply.Text, tt.want)
			}
			if len(reply.Cards) != 1 || reply.Cards[0].ID != 5 {
				t.Errorf("Cards = %+v", reply.Cards)
			}
		})
	}

	t.Run("missing property clears reference", func(t *testing.T) {
		dc := &model.DialogueContext{ReferenceKind: model.ReferenceProperty, ReferenceID: 99}
		reply := d.Handle(context.Background(), Request{Text: "how many bathrooms does it have", Context: dc})
		if reply.Text != followupUnavailable {
			t.Errorf("Text = %q", reply.Text)
		}
		if reply.Context.HasReference() {
			t.Errorf("reference kept: %+v", reply.Context)
		}
	})
}

func TestDispatcher_InformationFAQAndSubject(t *testing.T) {
	catalog := &fakeCatalog{
		props:    []model.PropertySummary{property(1, "sale", 100, 2, "Prado")},
		projects: []model.ProjectSummary{{ID: 9, Name: "Prado Towers", Slug: "prado-towers", Location: "Pereira"}},
	}
	conversations := newFakeConversations()
	d := NewDispatcher(Deps{
		Catalog: catalog,
		FAQ: &fakeFAQ{faqs: []model.FAQ{
			{ID: 3, Question: "Do you offer financing?", Answer: "Yes, we work with several banks.", Keywords: "financing"},
		}},
		Settings:      fakeSettings{},
		Conversations: conversations,
	}, Options{SiteBaseURL: "https://example.com"})

	t.Run("faq answer", func(t *testing.T) {
		reply := d.Handle(context.Background(), Request{Text: "do you offer financing", ConversationID: "c1"})
		if reply.Text != "Yes, we work with several banks." {
			t.Errorf("Text = %q", reply.Text)
		}
		if len(conversations.questions) != 1 || conversations.questions[0].faqID == nil || *conversations.questions[0].faqID != 3 {
			t.Errorf("questions = %+v", conversations.questions)
		}
	})

	t.Run("named subject", func(t *testing.T) {
		reply := d.Handle(context.Background(), Request{Text: "information about Prado", ConversationID: "c1"})
		if reply.Intent != model.IntentRequestInformation {
			t.Fatalf("Intent = %q", reply.Intent)
		}
		if len(reply.Cards) != 2 || reply.Cards[0].Type != model.CardProperty || reply.Cards[1].Type != model.CardProject {
			t.Fatalf("Cards = %+v", reply.Cards)
		}
		if reply.Context.Location != "Prado" {
			t.Errorf("Location = %q, want Prado", reply.Context.Location)
		}
		if !strings.HasPrefix(reply.Text, "In **Prado** we have these properties:") {
			t.Errorf("Text = %q", reply.Text)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		reply := d.Handle(context.Background(), Request{Text: "information about Atlantis"})
		if reply.Text != subjectNotFound {
			t.Errorf("Text = %q", reply.Text)
		}
	})
}

func TestDispatcher_CollaboratorErrorsStillReply(t *testing.T) {
	d := NewDispatcher(Deps{
		Catalog:  &fakeCatalog{err: errBoom},
		FAQ:      &fakeFAQ{err: errBoom},
		Settings: fakeSettings{},
	}, Options{})

	for _, text := range []string{"houses in pereira", "information about Prado", "do you offer financing", "blah"} {
		reply := d.Handle(context.Background(), Request{Text: text})
		if strings.TrimSpace(reply.Text) == "" {
			t.Errorf("%q: empty reply", text)
		}
		if strings.Contains(reply.Text, "boom") {
			t.Errorf("%q: error leaked to user: %q", text, reply.Text)
		}
	}
}

func TestDispatcher_HandleStream(t *testing.T) {
	d, _, _ := newTestDispatcher(&fakeCatalog{}, &fakeRewriter{text: "Hello!"}, Options{})

	var events []string
	reply, err := d.HandleStream(context.Background(), Request{Text: "hi"}, func(event string, _ any) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		t.Fatalf("HandleStream: %v", err)
	}
	if got := strings.Join(events, ","); got != "intent,draft,reply" {
		t.Errorf("events = %s", got)
	}
	if reply.Text != "Hello!" {
		t.Errorf("Text = %q", reply.Text)
	}

	errGone := errors.New("client gone")
	_, err = d.HandleStream(context.Background(), Request{Text: "hi"}, func(string, any) error { return errGone })
	if !errors.Is(err, errGone) {
		t.Errorf("err = %v, want %v", err, errGone)
	}
}
