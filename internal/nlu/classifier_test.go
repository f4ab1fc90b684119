package nlu

import (
	"testing"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

func TestClassify(t *testing.T) {
	withProperty := &model.DialogueContext{ReferenceKind: model.ReferenceProperty, ReferenceID: 7}
	withProject := &model.DialogueContext{ReferenceKind: model.ReferenceProject, ReferenceID: 3}

	tests := []struct {
		name string
		text string
		ctx  *model.DialogueContext
		want model.Intent
	}{
		{name: "Farewell", text: "thanks, bye", want: model.IntentFarewell},
		{name: "Short greeting", text: "hi there", want: model.IntentGreeting},
		{name: "Search with have", text: "do you have apartments in the north", want: model.IntentSearchProperty},
		{
			name: "Long greeting is not a greeting",
			text: "hello, I am looking for a three bedroom apartment in the north of the city",
			want: model.IntentSearchProperty,
		},
		{name: "Single character", text: "?", want: model.IntentGeneralQuestion},
		{name: "Blank", text: "   ", want: model.IntentGeneralQuestion},
		{name: "Short text beats awaiting", text: "a", ctx: &model.DialogueContext{Awaiting: model.AwaitingName}, want: model.IntentGeneralQuestion},
		{name: "Awaiting name", text: "Maria Lopez", ctx: &model.DialogueContext{Awaiting: model.AwaitingName}, want: model.IntentConfirmBookingData},
		{name: "Awaiting email", text: "ana@example.com", ctx: &model.DialogueContext{Awaiting: model.AwaitingEmail}, want: model.IntentConfirmBookingData},
		{name: "Awaiting phone overrides keywords", text: "hello 3001234567", ctx: &model.DialogueContext{Awaiting: model.AwaitingPhone}, want: model.IntentConfirmBookingData},
		{name: "Awaiting date", text: "2026-11-03", ctx: &model.DialogueContext{Awaiting: model.AwaitingDate}, want: model.IntentBookAppointment},
		{name: "Awaiting time", text: "thanks, 10:00", ctx: &model.DialogueContext{Awaiting: model.AwaitingTime}, want: model.IntentBookAppointment},
		{name: "Booking keyword", text: "I want to schedule a visit", want: model.IntentBookAppointment},
		{name: "Time and hour are booking words", text: "what time do you open", want: model.IntentBookAppointment},
		{name: "Another option with reference", text: "show me another one", ctx: withProperty, want: model.IntentRequestAnotherOption},
		{name: "Another option without reference", text: "show me another one", want: model.IntentGeneralQuestion},
		{name: "Follow-up on property", text: "how many bathrooms does it have", ctx: withProperty, want: model.IntentPropertyFollowupQuestion},
		{name: "Follow-up words on project fall through", text: "how many bathrooms does it have", ctx: withProject, want: model.IntentSearchProperty},
		{name: "Compare", text: "can you compare them", want: model.IntentCompareOptions},
		{name: "Recommendation", text: "what do you recommend", want: model.IntentRequestRecommendation},
		{name: "Information", text: "how does financing work", want: model.IntentRequestInformation},
		{name: "Is there without dwelling", text: "is there a pool", want: model.IntentRequestInformation},
		{name: "Default", text: "blue sky", want: model.IntentGeneralQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text, tt.ctx); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestQuestionTopic(t *testing.T) {
	tests := []struct {
		text string
		want Topic
	}{
		{"how many bathrooms does it have", TopicBathrooms},
		{"how many bedrooms", TopicRooms},
		{"how big is it", TopicArea},
		{"what is the price", TopicPrice},
		{"tell me more", TopicSummary},
	}
	for _, tt := range tests {
		if got := QuestionTopic(tt.text); got != tt.want {
			t.Errorf("QuestionTopic(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestInfoSubject(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Information about the Prado project", "Prado"},
		{"tell me about Altos del Valle", "Altos Del Valle"},
		{"what is Mirador?", "Mirador"},
		{"how does financing work", ""},
		{"info about", ""},
	}
	for _, tt := range tests {
		if got := InfoSubject(tt.text); got != tt.want {
			t.Errorf("InfoSubject(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
