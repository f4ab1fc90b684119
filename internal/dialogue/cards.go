package dialogue

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/reasoning"
)

const (
	maxPropertyCards    = 4
	maxProjectCards     = 3
	maxSummaryCards     = 6
	maxSummaryDescRunes = 80
	noResultsSummary    = "No database results for this request."
	summaryHeader       = "Database context (answer by name, location, price or features using only this):"
)

// CardBuilder renders repository rows as UI cards with links to the public site.
type CardBuilder struct {
	baseURL string
}

// NewCardBuilder creates a card builder for the public site at baseURL.
func NewCardBuilder(baseURL string) CardBuilder {
	return CardBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// Property renders a property card.
func (b CardBuilder) Property(p model.PropertySummary) model.Card {
	return model.Card{
		Type:         model.CardProperty,
		ID:           p.ID,
		Title:        p.Title,
		PropertyType: p.PropertyType,
		Location:     p.Location,
		Price:        reasoning.PriceLabel(p.Price),
		Rooms:        p.Rooms,
		Bathrooms:    p.Bathrooms,
		Description:  strings.TrimSpace(p.Description),
		URL:          fmt.Sprintf("%s/?page=property&slug=%s", b.baseURL, url.QueryEscape(p.Slug)),
		Image:        b.image("properties", p.MainImage),
	}
}

// Project renders a project card.
func (b CardBuilder) Project(p model.ProjectSummary) model.Card {
	return model.Card{
		Type:        model.CardProject,
		ID:          p.ID,
		Title:       p.Name,
		Location:    p.Location,
		PriceFrom:   reasoning.PriceLabel(p.PriceFrom),
		Description: strings.TrimSpace(p.Description),
		URL:         fmt.Sprintf("%s/?page=project&slug=%s", b.baseURL, url.QueryEscape(p.Slug)),
		Image:       b.image("projects", p.MainImage),
	}
}

// Cards renders at most four properties followed by at most three projects.
func (b CardBuilder) Cards(props []model.PropertySummary, projects []model.ProjectSummary) []model.Card {
	cards := make([]model.Card, 0, maxPropertyCards+maxProjectCards)
	for i, p := range props {
		if i == maxPropertyCards {
			break
		}
		cards = append(cards, b.Property(p))
	}
	for i, p := range projects {
		if i == maxProjectCards {
			break
		}
		cards = append(cards, b.Project(p))
	}
	return cards
}

func (b CardBuilder) image(folder, file string) *string {
	file = strings.TrimSpace(file)
	if file == "" {
		return nil
	}
	u := fmt.Sprintf("%s/uploads/%s/%s", b.baseURL, folder, file)
	return &u
}

// DataSummary describes cards for the rewriter, one line per card.
func DataSummary(cards []model.Card) string {
	if len(cards) == 0 {
		return noResultsSummary
	}
	if len(cards) > maxSummaryCards {
		cards = cards[:maxSummaryCards]
	}

	lines := []string{summaryHeader}
	for _, c := range cards {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = "Untitled"
		}

		var line strings.Builder
		if c.Type == model.CardProject {
			fmt.Fprintf(&line, "- Project: %s", title)
			if c.Location != "" {
				fmt.Fprintf(&line, ", location: %s", c.Location)
			}
			if c.PriceFrom != "" {
				fmt.Fprintf(&line, ", from %s", c.PriceFrom)
			}
		} else {
			kind := c.PropertyType
			if kind == "" {
				kind = string(model.PropertyTypeSale)
			}
			fmt.Fprintf(&line, "- Property: %s, %s", title, kind)
			if c.Location != "" {
				fmt.Fprintf(&line, ", location: %s", c.Location)
			}
			if c.Price != "" {
				fmt.Fprintf(&line, ", price: %s", c.Price)
			}
			if c.Rooms != nil {
				fmt.Fprintf(&line, ", %d rooms", *c.Rooms)
			}
			if c.Bathrooms != nil {
				fmt.Fprintf(&line, ", %d bathrooms", *c.Bathrooms)
			}
		}
		if desc := truncateRunes(c.Description, maxSummaryDescRunes); desc != "" {
			fmt.Fprintf(&line, ". %s", desc)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
