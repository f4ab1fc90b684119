package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/nlu"
)

const minFAQWordLen = 2

// MatchFAQ scores every active FAQ by how many words of text appear in its
// question or keywords and returns the best limit of them.
func (r *PostgresRepository) MatchFAQ(ctx context.Context, text string, limit int) ([]model.FAQ, error) {
	if len(faqWords(text)) == 0 {
		return nil, nil
	}

	var faqs []model.FAQ
	query := `
		SELECT id, question, answer, category, keywords, sort_order
		FROM chatbot_faqs
		WHERE active = true
		ORDER BY sort_order, id
	`
	if err := r.db.SelectContext(ctx, &faqs, query); err != nil {
		return nil, fmt.Errorf("failed to load faqs: %w", err)
	}

	return scoreFAQs(faqs, text, limit), nil
}

func faqWords(text string) []string {
	var words []string
	for _, w := range strings.Fields(nlu.Normalize(text)) {
		if len([]rune(w)) >= minFAQWordLen {
			words = append(words, w)
		}
	}
	return words
}

// scoreFAQs keeps FAQs sharing at least one word with text, best first.
// Ties keep the stored order.
func scoreFAQs(faqs []model.FAQ, text string, limit int) []model.FAQ {
	words := faqWords(text)
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		faq   model.FAQ
		score int
	}
	var matches []scored
	for _, f := range faqs {
		combined := nlu.Normalize(f.Question + " " + f.Keywords)
		score := 0
		for _, w := range words {
			if strings.Contains(combined, w) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{faq: f, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.FAQ, len(matches))
	for i, m := range matches {
		out[i] = m.faq
	}
	return out
}
