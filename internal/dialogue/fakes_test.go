package dialogue

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

type fakeCatalog struct {
	props    []model.PropertySummary
	projects []model.ProjectSummary
	similar  []model.PropertySummary
	err      error

	mu      sync.Mutex
	queries []model.PropertyQuery
}

func (f *fakeCatalog) SearchProperties(_ context.Context, q model.PropertyQuery) ([]model.PropertySummary, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var out []model.PropertySummary
	for _, p := range f.props {
		if q.PropertyType != "" && p.PropertyType != string(q.PropertyType) {
			continue
		}
		if q.BudgetMin != nil && (p.Price == nil || *p.Price < *q.BudgetMin) {
			continue
		}
		if q.BudgetMax != nil && (p.Price == nil || *p.Price > *q.BudgetMax) {
			continue
		}
		if q.RoomsMin != nil && (p.Rooms == nil || *p.Rooms < *q.RoomsMin) {
			continue
		}
		if q.Location != "" || q.Title != "" {
			loc := q.Location != "" && containsFold(p.Location, q.Location)
			title := q.Title != "" && containsFold(p.Title, q.Title)
			if !loc && !title {
				continue
			}
		}
		if containsID(q.ExcludeIDs, p.ID) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchProjects(_ context.Context, q model.ProjectQuery) ([]model.ProjectSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ProjectSummary
	for _, p := range f.projects {
		if q.Location != "" && !containsFold(p.Location, q.Location) && !containsFold(p.Name, q.Location) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProperty(_ context.Context, id int64) (*model.PropertySummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.props {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) SimilarProperties(_ context.Context, _ int64, excludeIDs []int64, limit int) ([]model.PropertySummary, error) {
	var out []model.PropertySummary
	for _, p := range f.similar {
		if containsID(excludeIDs, p.ID) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type fakeFAQ struct {
	faqs []model.FAQ
	err  error
}

func (f *fakeFAQ) MatchFAQ(_ context.Context, text string, limit int) ([]model.FAQ, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.FAQ
	for _, q := range f.faqs {
		if containsFold(text, q.Keywords) {
			out = append(out, q)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSettings map[string]string

func (f fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f[key], nil
}

type loggedQuestion struct {
	conversationID string
	text           string
	intent         model.Intent
	faqID          *int64
}

type fakeConversations struct {
	mu        sync.Mutex
	converted map[string]int64
	questions []loggedQuestion
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{converted: map[string]int64{}}
}

func (f *fakeConversations) MarkConverted(_ context.Context, conversationID string, appointmentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.converted[conversationID] = appointmentID
	return nil
}

func (f *fakeConversations) LogQuestion(_ context.Context, conversationID, text string, intent model.Intent, faqID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, loggedQuestion{conversationID, text, intent, faqID})
	return nil
}

type fakeScheduler struct {
	times   []string
	result  model.AppointmentResult
	created []model.AppointmentRequest
}

func (f *fakeScheduler) AvailableTimes(context.Context, string) ([]string, error) {
	return f.times, nil
}

func (f *fakeScheduler) CreateAppointment(_ context.Context, req model.AppointmentRequest) (model.AppointmentResult, error) {
	f.created = append(f.created, req)
	return f.result, nil
}

type fakeRewriter struct {
	text string
	err  error

	calls int
	last  model.RewriteRequest
}

func (f *fakeRewriter) Rewrite(_ context.Context, req model.RewriteRequest) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

var errBoom = errors.New("boom")

func property(id int64, typ string, price float64, rooms int, location string) model.PropertySummary {
	return model.PropertySummary{
		ID:           id,
		Title:        "Property " + location,
		Slug:         "property-" + strings.ToLower(location),
		PropertyType: typ,
		Location:     location,
		Price:        &price,
		Rooms:        &rooms,
	}
}

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
