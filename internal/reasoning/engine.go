// Package reasoning turns search filters into a result set and a persuasive
// narrative, relaxing the filters tier by tier until something matches.
package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

const (
	exactPropertyLimit   = 6
	exactProjectLimit    = 3
	wantedProjectLimit   = 6
	relaxedPropertyLimit = 6
	broadPropertyLimit   = 4
	broadProjectLimit    = 3

	relaxedBudgetFactor = 1.2
	narrativeExamples   = 2
)

// Catalog is the read side of the property and project repositories.
type Catalog interface {
	SearchProperties(ctx context.Context, q model.PropertyQuery) ([]model.PropertySummary, error)
	SearchProjects(ctx context.Context, q model.ProjectQuery) ([]model.ProjectSummary, error)
}

// Engine runs the tiered search: exact, relaxed, broad and none.
type Engine struct {
	catalog Catalog
}

// NewEngine creates a new reasoning engine
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Run evaluates the tiers in order and returns the first non-empty one.
// It never fails: repository errors count as empty results, and every
// narrative ends with a next step.
func (e *Engine) Run(ctx context.Context, f model.ReasoningFilters) model.ReasoningResult {
	location := strings.TrimSpace(f.Location)

	if res, ok := e.exact(ctx, f, location); ok {
		return res
	}
	if res, ok := e.relaxed(ctx, f, location); ok {
		return res
	}
	if res, ok := e.broad(ctx, f, location); ok {
		return res
	}
	return model.ReasoningResult{
		Tier:       model.TierNone,
		Properties: []model.PropertySummary{},
		Projects:   []model.ProjectSummary{},
		Narrative:  noneNarrative(f.BudgetMax != nil),
	}
}

func (e *Engine) exact(ctx context.Context, f model.ReasoningFilters, location string) (model.ReasoningResult, bool) {
	props := e.searchProperties(ctx, model.PropertyQuery{
		PropertyType: f.PropertyType,
		BudgetMin:    f.BudgetMin,
		BudgetMax:    f.BudgetMax,
		RoomsMin:     f.Rooms,
		Location:     location,
		Title:        location,
		Limit:        exactPropertyLimit,
	})
	props = withinBudget(props, f.BudgetMax)

	var projects []model.ProjectSummary
	if f.WantsProjects || f.PropertyType == "" {
		limit := exactProjectLimit
		if f.WantsProjects {
			limit = wantedProjectLimit
		}
		projects = ProjectsWithinBudget(e.searchProjects(ctx, model.ProjectQuery{Location: location, Limit: limit}), f.BudgetMax)
	}

	if len(props) == 0 && len(projects) == 0 {
		return model.ReasoningResult{}, false
	}
	return model.ReasoningResult{
		Tier:       model.TierExact,
		Properties: nonNilProps(props),
		Projects:   nonNilProjects(projects),
		Narrative:  exactNarrative(len(props), len(projects)),
	}, true
}

func (e *Engine) relaxed(ctx context.Context, f model.ReasoningFilters, location string) (model.ReasoningResult, bool) {
	rooms := f.Rooms
	roomsRelaxed := f.Rooms != nil && *f.Rooms > 1
	if roomsRelaxed {
		r := *f.Rooms - 1
		rooms = &r
	}

	budgetMax := f.BudgetMax
	budgetRelaxed := f.BudgetMax != nil
	if budgetRelaxed {
		b := *f.BudgetMax * relaxedBudgetFactor
		budgetMax = &b
	}

	props := e.searchProperties(ctx, model.PropertyQuery{
		PropertyType: f.PropertyType,
		BudgetMin:    f.BudgetMin,
		BudgetMax:    budgetMax,
		RoomsMin:     rooms,
		Location:     location,
		Title:        location,
		Limit:        relaxedPropertyLimit,
	})
	if len(props) == 0 {
		return model.ReasoningResult{}, false
	}

	return model.ReasoningResult{
		Tier:       model.TierRelaxed,
		Properties: props,
		Projects:   []model.ProjectSummary{},
		Narrative:  relaxedNarrative(f, roomsRelaxed, budgetRelaxed, props),
	}, true
}

func (e *Engine) broad(ctx context.Context, f model.ReasoningFilters, location string) (model.ReasoningResult, bool) {
	props := e.searchProperties(ctx, model.PropertyQuery{
		PropertyType: f.PropertyType,
		Location:     location,
		Title:        location,
		Limit:        broadPropertyLimit,
	})
	projects := e.searchProjects(ctx, model.ProjectQuery{Location: location, Limit: broadProjectLimit})

	if len(props) == 0 && len(projects) == 0 {
		return model.ReasoningResult{}, false
	}
	return model.ReasoningResult{
		Tier:       model.TierBroad,
		Properties: nonNilProps(props),
		Projects:   nonNilProjects(projects),
		Narrative: "I don't have exactly what you're looking for with those criteria right now, " +
			"but I do have other options that might interest you. " +
			"Would you like me to show them to you, adjust the criteria, or shall we book a visit so an advisor can help you find the right one?",
	}, true
}

func (e *Engine) searchProperties(ctx context.Context, q model.PropertyQuery) []model.PropertySummary {
	props, err := e.catalog.SearchProperties(ctx, q)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("property search failed, treating as empty")
		return nil
	}
	return props
}

func (e *Engine) searchProjects(ctx context.Context, q model.ProjectQuery) []model.ProjectSummary {
	projects, err := e.catalog.SearchProjects(ctx, q)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("project search failed, treating as empty")
		return nil
	}
	return projects
}

// withinBudget drops properties above the ceiling, including unpriced ones.
func withinBudget(props []model.PropertySummary, budgetMax *float64) []model.PropertySummary {
	if budgetMax == nil {
		return props
	}
	kept := props[:0:0]
	for _, p := range props {
		if p.Price != nil && *p.Price <= *budgetMax {
			kept = append(kept, p)
		}
	}
	return kept
}

// ProjectsWithinBudget keeps projects whose starting price fits the ceiling.
// Projects without a starting price are kept.
func ProjectsWithinBudget(projects []model.ProjectSummary, budgetMax *float64) []model.ProjectSummary {
	if budgetMax == nil {
		return projects
	}
	kept := projects[:0:0]
	for _, p := range projects {
		if p.PriceFrom == nil || *p.PriceFrom <= *budgetMax {
			kept = append(kept, p)
		}
	}
	return kept
}

func exactNarrative(properties, projects int) string {
	if properties == 0 {
		return fmt.Sprintf("Among our projects I found %d option(s) that fit. "+
			"Would you like me to tell you more, or shall we book a visit?", projects)
	}
	return fmt.Sprintf("Yes, of course. I have %d option(s) that match what you're looking for. "+
		"Would you like to see more details or book a visit to see them in person?", properties)
}

func relaxedNarrative(f model.ReasoningFilters, roomsRelaxed, budgetRelaxed bool, props []model.PropertySummary) string {
	top := props[0]
	benefits := BenefitText(top)
	examples := exampleList(props)

	var b strings.Builder
	switch {
	case roomsRelaxed && budgetRelaxed:
		fmt.Fprintf(&b, "Right now I don't have exactly %d rooms within that budget, but I do have options with %s that stand out for being %s.",
			*f.Rooms, roomsOf(top, *f.Rooms-1), benefits)
	case roomsRelaxed:
		fmt.Fprintf(&b, "Right now I don't have one with exactly %d rooms, but I do have options with %s that stand out for being %s.",
			*f.Rooms, roomsOf(top, *f.Rooms-1), benefits)
	case budgetRelaxed:
		fmt.Fprintf(&b, "There is no exact match within that budget, but there are options slightly above it that stand out for being %s.", benefits)
	default:
		fmt.Fprintf(&b, "I didn't find an exact match for those criteria, but I do have close options: %s.", benefits)
	}
	if examples != "" {
		fmt.Fprintf(&b, " For example: %s.", examples)
	}
	b.WriteString(" Would you like me to show them to you or shall we book a visit?")
	return b.String()
}

// exampleList cites up to two results as "N rooms for $X".
func exampleList(props []model.PropertySummary) string {
	var parts []string
	for _, p := range props {
		if len(parts) == narrativeExamples {
			break
		}
		price := PriceLabel(p.Price)
		switch {
		case p.Rooms != nil && price != "":
			parts = append(parts, fmt.Sprintf("%s for %s", roomsPhrase(*p.Rooms), price))
		case price != "":
			parts = append(parts, fmt.Sprintf("%s for %s", p.Title, price))
		}
	}
	return strings.Join(parts, " and ")
}

func roomsOf(p model.PropertySummary, fallback int) string {
	if p.Rooms != nil {
		return roomsPhrase(*p.Rooms)
	}
	return roomsPhrase(fallback)
}

func noneNarrative(budgetCapped bool) string {
	if budgetCapped {
		return "Right now I don't have properties within that budget. " +
			"Would you like me to show you options slightly above it, or shall we book a visit so an advisor can walk you through alternatives?"
	}
	return "Nothing matches those criteria right now. " +
		"Shall we adjust the criteria (rooms, area, type), or book a visit so we can help you find something?"
}

func nonNilProps(p []model.PropertySummary) []model.PropertySummary {
	if p == nil {
		return []model.PropertySummary{}
	}
	return p
}

func nonNilProjects(p []model.ProjectSummary) []model.ProjectSummary {
	if p == nil {
		return []model.ProjectSummary{}
	}
	return p
}
