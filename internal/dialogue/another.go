package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/reasoning"
)

const (
	anotherOptionLimit = 4
	optionsExhausted   = "I don't have more options with those criteria right now. Would you like me to broaden the search (another area or budget) or shall we book a visit to one of the ones you saw?"
)

// anotherOption shows the first property that has not been shown yet under
// the current filters. It never repeats a shown property.
func (d *Dispatcher) anotherOption(ctx context.Context, dc *model.DialogueContext) model.Reply {
	exclude := append([]int64(nil), dc.ShownPropertyIDs...)
	if dc.ReferenceKind == model.ReferenceProperty && dc.ReferenceID > 0 && !dc.WasShown(dc.ReferenceID) {
		exclude = append(exclude, dc.ReferenceID)
	}

	props, err := d.catalog.SearchProperties(ctx, model.PropertyQuery{
		PropertyType: dc.PropertyType,
		BudgetMin:    dc.BudgetMin,
		BudgetMax:    dc.BudgetMax,
		RoomsMin:     dc.RoomCount,
		Location:     dc.Location,
		Title:        dc.Location,
		ExcludeIDs:   exclude,
		Limit:        anotherOptionLimit,
	})
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("another option search failed")
	}

	next, ok := firstFresh(props, exclude, dc.BudgetMax)
	if !ok {
		return model.Reply{Text: optionsExhausted, Context: dc}
	}

	if dc.ReferenceKind == model.ReferenceProperty {
		dc.RememberShown(dc.ReferenceID)
	}
	dc.SetReference(model.ReferenceProperty, next.ID)
	dc.RememberShown(next.ID)

	return model.Reply{
		Text:    anotherOptionText(next) + "\n\n" + d.setting(ctx, SettingBookingMessage, defaultBookingMessage),
		Cards:   []model.Card{d.cards.Property(next)},
		Context: dc,
	}
}

// firstFresh returns the first property not in exclude and within budget.
func firstFresh(props []model.PropertySummary, exclude []int64, budgetMax *float64) (model.PropertySummary, bool) {
	for _, p := range props {
		if containsID(exclude, p.ID) {
			continue
		}
		if budgetMax != nil && (p.Price == nil || *p.Price > *budgetMax) {
			continue
		}
		return p, true
	}
	return model.PropertySummary{}, false
}

func anotherOptionText(p model.PropertySummary) string {
	parts := []string{fmt.Sprintf("Sure, I also have **%s**.", p.Title)}
	var facts []string
	if p.Rooms != nil {
		facts = append(facts, plural(*p.Rooms, "room"))
	}
	if p.Bathrooms != nil {
		facts = append(facts, plural(*p.Bathrooms, "bathroom"))
	}
	if len(facts) > 0 {
		parts = append(parts, fmt.Sprintf("It has %s.", strings.Join(facts, " and ")))
	}
	if price := reasoning.PriceLabel(p.Price); price != "" {
		parts = append(parts, fmt.Sprintf("Price: %s.", price))
	}
	parts = append(parts, fmt.Sprintf("It stands out for being %s.", reasoning.BenefitText(p)))
	parts = append(parts, "Are you interested, or shall I show you another one?")
	return strings.Join(parts, " ")
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
