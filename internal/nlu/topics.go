package nlu

import (
	"strings"
)

// Topic is what a follow-up question about a property asks for.
type Topic int

const (
	TopicSummary Topic = iota
	TopicBathrooms
	TopicRooms
	TopicArea
	TopicPrice
)

// QuestionTopic classifies a follow-up question about the referenced property.
// Bathrooms are checked before rooms so "how many bathrooms" is not read as rooms.
func QuestionTopic(text string) Topic {
	w := toWords(Normalize(text))
	switch {
	case w.hasAny(bathroomQuestionWords):
		return TopicBathrooms
	case w.hasAny(roomQuestionWords):
		return TopicRooms
	case w.hasAny(areaQuestionWords):
		return TopicArea
	case w.hasAny(priceQuestionWords):
		return TopicPrice
	}
	return TopicSummary
}

var subjectTrailingWords = map[string]bool{
	"project": true, "projects": true, "property": true, "properties": true,
	"building": true, "development": true, "please": true,
}

const maxSubjectWords = 5

// InfoSubject returns the named subject of an information request such as
// "information about Prado" or "what is Altos del Valle", title-cased.
func InfoSubject(text string) string {
	t := Normalize(text)
	var rest string
	for _, p := range infoSubjectPrefixes {
		if i := strings.Index(t, p); i >= 0 {
			rest = t[i+len(p):]
			break
		}
	}
	if rest == "" {
		for _, p := range infoSubjectStarts {
			if strings.HasPrefix(t, p) {
				rest = strings.TrimPrefix(t, p)
				break
			}
		}
	}
	if rest == "" {
		return ""
	}

	words := strings.Fields(strings.TrimSpace(string(toWords(rest))))
	for len(words) > 0 && locationLeadingArticles[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && subjectTrailingWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 || len(words) > maxSubjectWords {
		return ""
	}
	subject := strings.Join(words, " ")
	if len(subject) < 2 {
		return ""
	}
	return titleCase(subject)
}

// AsksLocation reports whether text asks where the business is.
func AsksLocation(text string) bool {
	return toWords(Normalize(text)).hasAny(locationQuestionWords)
}

// AsksAboutUs reports whether text asks who the business is.
func AsksAboutUs(text string) bool {
	return toWords(Normalize(text)).hasAny(aboutUsWords)
}

// AsksDetails reports whether text asks about a practical detail such as
// parking, included services or rental requirements.
func AsksDetails(text string) bool {
	return toWords(Normalize(text)).hasAny(detailQuestionWords)
}

// WantsProjects reports whether text is about projects rather than single
// properties.
func WantsProjects(text string) bool {
	return toWords(Normalize(text)).hasAny([]string{"project", "projects", "development", "developments", "pre sale", "presale"})
}
