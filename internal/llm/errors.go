package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrDisabled is returned when the provider has no credentials.
	ErrDisabled = errors.New("rewriter is disabled")
	// ErrEmptyOutput is returned when the model produced no usable text.
	ErrEmptyOutput = errors.New("rewriter returned empty output")
	// ErrOutputTooLong is returned when the model overshot the reply limit.
	ErrOutputTooLong = errors.New("rewriter output exceeds limit")
)

// APIError is a non-2xx answer from a provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err means the provider asked us to slow down.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusTooManyRequests
	}
	// gRPC transport reports quota errors by status name only
	return err != nil && strings.Contains(err.Error(), "ResourceExhausted")
}
