package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minRooms = 1
	maxRooms = 10
	million  = 1_000_000
)

var (
	roomCountRe     = regexp.MustCompile(`\b(\d{1,3})\s*-?\s*(?:rooms?|bedrooms?|beds?|suites?)\b`)
	roomWordCountRe = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\s*-?\s*(?:rooms?|bedrooms?|beds?|suites?)\b`)

	// amountRe is the first budget pass: every number, with an optional million suffix.
	amountRe = regexp.MustCompile(`\b(\d{1,3}(?:[.,]\d{3})+|\d+(?:[.,]\d+)?)\s*(?:millions?|mm|m)?\b`)
	// millionAmountRe is the second pass, run only when the text says "million".
	millionAmountRe = regexp.MustCompile(`\b(\d{1,3}(?:[.,]\d+)?)\s*(?:millions?|m\b)?`)
	groupedRe       = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)
	// areaRe marks surface figures, which are never prices.
	areaRe = regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s*(?:m2|m²|mt2|mts2|sqm|sq\s?m\b|sq\s?ft\b|square\s+(?:meters?|metres?|feet)|meters?\b|metres?\b)`)

	locationAnchorRe = regexp.MustCompile(`\b(?:in|of|near|around|at|zone|sector|neighborhood|neighbourhood|district|city)\s+([a-z][a-z\s\-]{1,39})`)
	knownPlaceRe     = regexp.MustCompile(`\b(` + strings.Join(knownPlaces, "|") + `)\b`)

	quantityPhraseRe = regexp.MustCompile(`\b(?:a lot of|lots of)\b`)
)

var roomWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Extract pulls property type, budget, room count and location out of text.
// It never fails; anything it cannot find is left empty.
func Extract(text string) model.ExtractedEntities {
	t := Normalize(text)
	var out model.ExtractedEntities
	if t == "" {
		return out
	}
	// "a lot of light" is a quantity, not a plot of land or a place.
	t = quantityPhraseRe.ReplaceAllString(t, "much")

	out.PropertyType = extractType(t)

	rooms, roomSpans := extractRooms(t)
	out.RoomCount = rooms

	out.BudgetMin, out.BudgetMax = extractBudget(t, append(roomSpans, areaSpans(t)...))
	out.Location = extractLocation(t)

	return out
}

func extractType(t string) model.PropertyType {
	w := toWords(t)
	switch {
	case w.hasAny(rentTypeWords):
		return model.PropertyTypeRent
	case w.hasAny(lotTypeWords):
		return model.PropertyTypeLot
	case w.hasAny(saleTypeWords):
		return model.PropertyTypeSale
	}

	// Fallback: word stems with the same priority.
	switch {
	case w.hasPrefixWord(rentTypePrefixes):
		return model.PropertyTypeRent
	case w.hasPrefixWord(lotTypePrefixes):
		return model.PropertyTypeLot
	case w.hasPrefixWord(saleTypePrefixes):
		return model.PropertyTypeSale
	}
	return ""
}

type span struct{ start, end int }

func (s span) contains(i int) bool { return i >= s.start && i < s.end }

// extractRooms returns the first room count in range and the spans of every
// number attached to a room noun, so budget parsing can skip them.
func extractRooms(t string) (*int, []span) {
	var (
		rooms *int
		spans []span
	)
	for _, m := range roomCountRe.FindAllStringSubmatchIndex(t, -1) {
		spans = append(spans, span{m[2], m[3]})
		if rooms != nil {
			continue
		}
		n, err := strconv.Atoi(t[m[2]:m[3]])
		if err != nil || n < minRooms || n > maxRooms {
			continue
		}
		rooms = &n
	}
	if rooms == nil {
		if m := roomWordCountRe.FindStringSubmatch(t); m != nil {
			n := roomWords[m[1]]
			rooms = &n
		}
	}
	return rooms, spans
}

func areaSpans(t string) []span {
	var spans []span
	for _, m := range areaRe.FindAllStringSubmatchIndex(t, -1) {
		spans = append(spans, span{m[2], m[3]})
	}
	return spans
}

func inAnySpan(spans []span, i int) bool {
	for _, s := range spans {
		if s.contains(i) {
			return true
		}
	}
	return false
}

// extractBudget runs the two budget passes. The first pass assigns every
// amount: with max framing anywhere in the text the amount becomes the
// ceiling (the last one wins), otherwise it seeds the floor once. The second
// pass only runs on "million" texts and fills whichever slot is still empty
// with the first amount, so a single amount can end up as both floor and
// ceiling. Numbers inside skip (room counts and surface areas) are never
// amounts.
func extractBudget(t string, skip []span) (floor, ceiling *float64) {
	maxFraming := toWords(t).hasAny(maxBudgetWords)

	for _, m := range amountRe.FindAllStringSubmatchIndex(t, -1) {
		if inAnySpan(skip, m[2]) {
			continue
		}
		v, ok := parseAmount(t[m[2]:m[3]])
		if !ok {
			continue
		}
		if maxFraming {
			ceiling = floatPtr(v)
		} else if floor == nil {
			floor = floatPtr(v)
		}
	}

	if strings.Contains(t, "million") {
		for _, m := range millionAmountRe.FindAllStringSubmatchIndex(t, -1) {
			if inAnySpan(skip, m[2]) {
				continue
			}
			v, ok := parseAmount(t[m[2]:m[3]])
			if !ok {
				continue
			}
			if ceiling == nil {
				ceiling = floatPtr(v)
			}
			if floor == nil {
				floor = floatPtr(v)
			}
			break
		}
	}
	return floor, ceiling
}

// parseAmount reads a quoted price. Bare numbers under 1000 are millions;
// anything larger is already a raw amount.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	var v float64
	var err error
	if groupedRe.MatchString(s) {
		v, err = strconv.ParseFloat(strings.NewReplacer(".", "", ",", "").Replace(s), 64)
	} else {
		v, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	}
	if err != nil || v <= 0 {
		return 0, false
	}
	if v < 1000 {
		return v * million, true
	}
	return v, true
}

func extractLocation(t string) string {
	for _, m := range locationAnchorRe.FindAllStringSubmatch(t, -1) {
		if place := cleanPlace(m[1]); len(place) >= 2 {
			return titleCase(place)
		}
	}
	if m := knownPlaceRe.FindStringSubmatch(t); m != nil {
		return titleCase(m[1])
	}
	return ""
}

// cleanPlace trims a captured place at the first filler word and drops a
// leading article.
func cleanPlace(capture string) string {
	words := strings.Fields(strings.ReplaceAll(capture, "-", " "))
	for len(words) > 0 && locationLeadingArticles[words[0]] {
		words = words[1:]
	}
	var kept []string
	for _, w := range words {
		if locationStopWords[w] || locationLeadingArticles[w] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func floatPtr(v float64) *float64 { return &v }
