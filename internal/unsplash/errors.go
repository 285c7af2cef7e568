package unsplash

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	friendlyerrors "github.com/jxwalker/pixnix/internal/errors"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Path       string
	Remaining  string        // X-Ratelimit-Remaining, when sent
	RetryAfter time.Duration // parsed Retry-After, zero when absent
	Body       string        // first API error message, if the body carried one
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("unsplash %s: %s", e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// RateLimited reports whether the request was refused for quota reasons.
func (e *APIError) RateLimited() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode == http.StatusForbidden && e.Remaining == "0"
}

// Friendly converts err into a user-facing error with remediation hints.
func Friendly(err error, host string) error {
	if err == nil {
		return nil
	}
	var fe *friendlyerrors.UserFriendlyError
	if errors.As(err, &fe) {
		return fe
	}
	var ae *APIError
	if errors.As(err, &ae) {
		switch {
		case ae.RateLimited():
			return friendlyerrors.RateLimitError(ae.Remaining, err)
		case ae.StatusCode == http.StatusUnauthorized || ae.StatusCode == http.StatusForbidden:
			return friendlyerrors.AuthError(host, ae.StatusCode, err)
		case ae.StatusCode == http.StatusNotFound:
			return friendlyerrors.NewFriendlyError("Photo not found", "Check the photo id; it may have been removed by its author").WithDetails(err)
		default:
			return err
		}
	}
	return friendlyerrors.NetworkError(err)
}

func parseRetryAfter(raw string) time.Duration {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := time.Parse(http.TimeFormat, s); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}

// hostIs returns true if h equals root or is a subdomain of root.
func hostIs(h, root string) bool {
	h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
	root = strings.ToLower(strings.TrimSpace(root))
	return h == root || strings.HasSuffix(h, "."+root)
}
