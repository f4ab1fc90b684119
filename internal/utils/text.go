package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	fencedBlock  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	wrapperQuote = [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}, {"«", "»"}}
)

// CleanModelText strips what language models tend to wrap a plain reply in:
// a markdown code fence, surrounding quotes and a leading "Reply:" label.
func CleanModelText(input string) string {
	s := strings.TrimSpace(input)
	if matches := fencedBlock.FindStringSubmatch(s); len(matches) > 1 {
		s = strings.TrimSpace(matches[1])
	}

	for _, prefix := range []string{"Reply:", "Response:", "Answer:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	for _, q := range wrapperQuote {
		if len(s) > len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			inner := s[len(q[0]) : len(s)-len(q[1])]
			// "A" and "B" is quoted text, not a wrapped reply
			if !strings.Contains(inner, q[0]) && !strings.Contains(inner, q[1]) {
				s = strings.TrimSpace(inner)
			}
			break
		}
	}

	return s
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
