// Package nlu implements the rule-based language understanding of the
// assistant: entity extraction, intent classification and the booking field
// extractors. Everything here is a pure function of the input text.
package nlu

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize lower-cases text, folds accents and collapses whitespace.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)
	folded = spaceRe.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// wordText is normalized text reduced to letters and digits, padded with one
// space on each side so phrases can be matched on word boundaries.
type wordText string

func toWords(normalized string) wordText {
	normalized = strings.NewReplacer("'", "", "’", "").Replace(normalized)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, normalized)
	return wordText(" " + strings.Join(strings.Fields(cleaned), " ") + " ")
}

func (w wordText) has(phrase string) bool {
	return strings.Contains(string(w), " "+phrase+" ")
}

func (w wordText) hasAny(phrases []string) bool {
	for _, p := range phrases {
		if w.has(p) {
			return true
		}
	}
	return false
}

// hasPrefixWord reports whether any word starts with one of the prefixes.
func (w wordText) hasPrefixWord(prefixes []string) bool {
	for _, word := range strings.Fields(string(w)) {
		for _, p := range prefixes {
			if strings.HasPrefix(word, p) {
				return true
			}
		}
	}
	return false
}
