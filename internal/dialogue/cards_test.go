package dialogue

import (
	"strings"
	"testing"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

func TestCardBuilder(t *testing.T) {
	b := NewCardBuilder("https://example.com/")

	p := property(1, "sale", 210_000_000, 3, "Pereira")
	p.Slug = "casa prado"
	p.MainImage = "front.jpg"

	card := b.Property(p)
	if card.URL != "https://example.com/?page=property&slug=casa+prado" {
		t.Errorf("URL = %q", card.URL)
	}
	if card.Image == nil || *card.Image != "https://example.com/uploads/properties/front.jpg" {
		t.Errorf("Image = %v", card.Image)
	}
	if card.Price != "$210.0M" {
		t.Errorf("Price = %q", card.Price)
	}

	project := b.Project(model.ProjectSummary{ID: 2, Name: "Altos", Slug: "altos"})
	if project.Image != nil {
		t.Errorf("Image = %v, want nil", *project.Image)
	}
	if project.URL != "https://example.com/?page=project&slug=altos" {
		t.Errorf("URL = %q", project.URL)
	}
}

func TestCardBuilder_Limits(t *testing.T) {
	b := NewCardBuilder("https://example.com")

	var props []model.PropertySummary
	for i := int64(1); i <= 6; i++ {
		props = append(props, property(i, "sale", 100, 2, "Cali"))
	}
	var projects []model.ProjectSummary
	for i := int64(1); i <= 5; i++ {
		projects = append(projects, model.ProjectSummary{ID: i, Name: "Project"})
	}

	cards := b.Cards(props, projects)
	if len(cards) != maxPropertyCards+maxProjectCards {
		t.Fatalf("len(cards) = %d, want %d", len(cards), maxPropertyCards+maxProjectCards)
	}
	if cards[maxPropertyCards-1].Type != model.CardProperty || cards[maxPropertyCards].Type != model.CardProject {
		t.Errorf("properties must come before projects")
	}
}

func TestDataSummary(t *testing.T) {
	if got := DataSummary(nil); got != noResultsSummary {
		t.Errorf("DataSummary(nil) = %q", got)
	}

	b := NewCardBuilder("https://example.com")
	p := property(1, "rent", 1_500_000, 2, "Cali")
	p.Bathrooms = intPtr(1)
	p.Description = strings.Repeat("a", 120)
	cards := b.Cards([]model.PropertySummary{p}, []model.ProjectSummary{{ID: 2, Name: "Altos", Location: "Pereira", PriceFrom: float64Ptr(90_000_000)}})

	got := DataSummary(cards)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus two cards: %q", len(lines), got)
	}
	wantProperty := "- Property: Property Cali, rent, location: Cali, price: $1.50M, 2 rooms, 1 bathrooms. " + strings.Repeat("a", maxSummaryDescRunes)
	if lines[1] != wantProperty {
		t.Errorf("property line = %q, want %q", lines[1], wantProperty)
	}
	if lines[2] != "- Project: Altos, location: Pereira, from $90.0M" {
		t.Errorf("project line = %q", lines[2])
	}
}
