package llm

import (
	"context"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/log"
)

// withRetry calls fn up to attempts times. Only rate-limit errors are
// retried, after base, 2*base, 4*base...
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) (string, error)) (string, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		text, err := fn(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRateLimited(err) || attempt == attempts-1 {
			break
		}

		wait := base << attempt
		log.WithRequestID(ctx).WithFields(log.Fields{
			"attempt": attempt + 1,
			"of":      attempts,
			"wait":    wait.String(),
		}).Warn("rewriter rate limited, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}
