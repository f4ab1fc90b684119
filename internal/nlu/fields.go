package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 15

	maxNameRunes = 80
	maxNameWords = 5
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	namedAsRe     = regexp.MustCompile(`(?i)\bmy name is\s+([\p{L}][\p{L}'. \-]*)`)
	namePrefixRe  = regexp.MustCompile(`(?i)^(?:my name is|i am|i'm|im|it's|its|this is|name:)\s+`)
	nameCutWordRe = regexp.MustCompile(`(?i)\s+(?:and|my|phone|email|i|from)\b.*$`)

	phoneRunRe = regexp.MustCompile(`\+?\d[\d\s\-().]{5,20}\d`)

	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)

	clockTimeRe    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)?`)
	meridiemTimeRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(a\.?m\.?|p\.?m\.?)(?:\s|$|[^a-z])`)
)

// ExtractEmail returns the first e-mail address in text, lower-cased.
func ExtractEmail(text string) string {
	return strings.ToLower(emailRe.FindString(text))
}

// ExtractName returns a person's name. When the assistant just asked for the
// name the whole answer is taken; otherwise only an explicit "my name is"
// introduction counts.
func ExtractName(text string, awaitingName bool) string {
	text = strings.TrimSpace(text)
	var candidate string
	switch {
	case namedAsRe.MatchString(text):
		candidate = namedAsRe.FindStringSubmatch(text)[1]
	case awaitingName:
		candidate = namePrefixRe.ReplaceAllString(text, "")
	default:
		return ""
	}

	candidate = nameCutWordRe.ReplaceAllString(candidate, "")
	candidate = strings.TrimFunc(candidate, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	if !looksLikeName(candidate) {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(strings.Fields(candidate), " "))
}

// notNames are short answers that are never a person's name.
var notNames = map[string]bool{
	"my": true, "yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"hi": true, "hello": true, "thanks": true, "thank you": true, "why": true,
}

func looksLikeName(s string) bool {
	if notNames[strings.ToLower(s)] {
		return false
	}
	n := utf8.RuneCountInString(s)
	if n < 2 || n > maxNameRunes || len(strings.Fields(s)) > maxNameWords {
		return false
	}
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), r == '@':
			return false
		}
	}
	return letters >= 2
}

// ExtractPhone returns the digits of a phone number with 7 to 15 digits.
// Dates, times and e-mails are ignored and the first phone-shaped run wins.
// When the assistant just asked for the phone and no run qualifies, every
// remaining digit in the answer counts.
func ExtractPhone(text string, awaitingPhone bool) string {
	cleaned := stripNonPhone(text)
	for _, run := range phoneRunRe.FindAllString(cleaned, -1) {
		if p := validPhone(digitsOf(run)); p != "" {
			return p
		}
	}
	if awaitingPhone {
		return validPhone(digitsOf(cleaned))
	}
	return ""
}

func stripNonPhone(text string) string {
	cleaned := emailRe.ReplaceAllString(text, " ")
	cleaned = isoDateRe.ReplaceAllString(cleaned, " ")
	cleaned = dmyDateRe.ReplaceAllString(cleaned, " ")
	cleaned = clockTimeRe.ReplaceAllString(cleaned, " ")
	return meridiemTimeRe.ReplaceAllString(cleaned, " ")
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPhone(digits string) string {
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return ""
	}
	return digits
}

// ExtractDate returns the first real calendar date in text as YYYY-MM-DD.
// Accepted forms are YYYY-MM-DD, D/M/YYYY and D-M-YYYY.
func ExtractDate(text string) string {
	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d
		}
	}
	for _, m := range dmyDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := calendarDate(m[3], m[2], m[1]); ok {
			return d
		}
	}
	return ""
}

func calendarDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	iso := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	if _, err := time.Parse(time.DateOnly, iso); err != nil {
		return "", false
	}
	return iso, true
}

// ExtractTime returns the first clock time in text as HH:MM (24h).
// "3:30 pm", "15:30", "15:30:00" and "3pm" are accepted.
func ExtractTime(text string) string {
	for _, m := range clockTimeRe.FindAllStringSubmatch(text, -1) {
		if t, ok := clockTime(m[1], m[2], m[4]); ok {
			return t
		}
	}
	for _, m := range meridiemTimeRe.FindAllStringSubmatch(text, -1) {
		if t, ok := clockTime(m[1], "00", m[2]); ok {
			return t
		}
	}
	return ""
}

func clockTime(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return "", false
	}

	switch strings.ToLower(strings.ReplaceAll(meridiem, ".", "")) {
	case "am":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return "", false
		}
		if h != 12 {
			h += 12
		}
	default:
		if h < 0 || h > 23 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
