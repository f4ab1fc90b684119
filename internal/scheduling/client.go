// Package scheduling talks to the site's scheduling endpoints, which own
// agent assignment, validation and confirmation emails.
package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/config"
	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

const (
	defaultAvailabilityTimeout = 10 * time.Second
	defaultBookingTimeout      = 15 * time.Second
	maxResponseBytes           = 1 << 20
)

// Client calls the scheduling API
type Client struct {
	config     *config.SchedulerConfig
	httpClient *http.Client
}

// NewClient creates a new scheduling client
func NewClient(cfg *config.SchedulerConfig) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{},
	}
}

type availabilityResponse struct {
	Success bool     `json:"success"`
	Times   []string `json:"times"`
	Message string   `json:"message"`
}

// AvailableTimes returns the free slots for date (YYYY-MM-DD). An answer
// without success is an empty list, not an error.
func (c *Client) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(c.config.AvailabilityTimeout, defaultAvailabilityTimeout))
	defer cancel()

	u := c.url(c.config.AvailabilityPath) + "?" + url.Values{"date": {date}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch available times: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("availability request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result availabilityResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal availability: %w", err)
	}
	if !result.Success {
		return []string{}, nil
	}
	if result.Times == nil {
		return []string{}, nil
	}
	return result.Times, nil
}

// CreateAppointment posts the booking form. Rejections by the scheduler come
// back as an unsuccessful result with its message; only transport failures
// are errors.
func (c *Client) CreateAppointment(ctx context.Context, req model.AppointmentRequest) (model.AppointmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(c.config.BookingTimeout, defaultBookingTimeout))
	defer cancel()

	form := url.Values{
		"name":           {strings.TrimSpace(req.Name)},
		"phone":          {strings.TrimSpace(req.Phone)},
		"reference_kind": {string(req.ReferenceKind)},
		"reference_id":   {strconv.FormatInt(req.ReferenceID, 10)},
		"date":           {req.Date},
		"time":           {req.Time},
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		form.Set("email", email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.config.BookingPath), strings.NewReader(form.Encode()))
	if err != nil {
		return model.AppointmentResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.AppointmentResult{}, fmt.Errorf("failed to send appointment: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.AppointmentResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return model.AppointmentResult{}, nil
	}

	var result model.AppointmentResult
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return model.AppointmentResult{}, nil
		}
		return model.AppointmentResult{}, fmt.Errorf("failed to unmarshal appointment result: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		result.Success = false
	}
	return result, nil
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
