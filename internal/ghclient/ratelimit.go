package ghclient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Rate limit backoff bounds.
const (
	rateLimitPadding = time.Second
	maxRateLimitWait = time.Hour
)

// rateLimitWait reports whether err is a rate limit response and how long to wait
// before retrying. Retry-After wins over X-RateLimit-Reset when both are present.
func rateLimitWait(err error, now time.Time) (time.Duration, bool) {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return 0, false
	}
	if httpErr.StatusCode != http.StatusForbidden && httpErr.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	headers := httpErr.Headers
	exhausted := headers.Get("X-RateLimit-Remaining") == "0"
	if !exhausted && !strings.Contains(strings.ToLower(httpErr.Message), "rate limit") {
		return 0, false
	}

	wait := rateLimitPadding
	if secs, err := strconv.Atoi(headers.Get("Retry-After")); err == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	} else if reset, err := strconv.ParseInt(headers.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		wait = max(time.Unix(reset, 0).Sub(now), 0) + rateLimitPadding
	}
	return min(wait, maxRateLimitWait), true
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
