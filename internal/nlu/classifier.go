package nlu

import (
	"unicode/utf8"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

const (
	minClassifiableRunes = 2
	maxGreetingRunes     = 60
)

// Classify assigns one intent to a user turn. Rules are evaluated in order
// and the first match wins. A nil context is treated as empty.
func Classify(text string, dc *model.DialogueContext) model.Intent {
	t := Normalize(text)
	if utf8.RuneCountInString(t) < minClassifiableRunes {
		return model.IntentGeneralQuestion
	}

	if dc != nil {
		switch dc.Awaiting {
		case model.AwaitingName, model.AwaitingEmail, model.AwaitingPhone:
			return model.IntentConfirmBookingData
		case model.AwaitingDate, model.AwaitingTime:
			return model.IntentBookAppointment
		}
	}

	w := toWords(t)

	if w.hasAny(greetingWords) && utf8.RuneCountInString(t) < maxGreetingRunes {
		return model.IntentGreeting
	}
	if w.hasAny(farewellWords) {
		return model.IntentFarewell
	}
	if w.hasAny(bookingWords) {
		return model.IntentBookAppointment
	}

	if dc.HasReference() && w.hasAny(anotherOptionWords) {
		return model.IntentRequestAnotherOption
	}
	if dc.HasReference() && dc.ReferenceKind == model.ReferenceProperty && w.hasAny(followupWords) {
		return model.IntentPropertyFollowupQuestion
	}
	if w.hasAny(compareWords) {
		return model.IntentCompareOptions
	}
	if w.hasAny(recommendWords) {
		return model.IntentRequestRecommendation
	}

	if w.hasAny(searchWords) {
		return model.IntentSearchProperty
	}
	if w.hasAny(infoWords) {
		return model.IntentRequestInformation
	}
	if w.hasAny(haveWords) {
		if w.hasAny(haveDwellingWords) {
			return model.IntentSearchProperty
		}
		return model.IntentRequestInformation
	}

	return model.IntentGeneralQuestion
}
