package downloader

import (
	"fmt"
	"net/http"
	neturl "net/url"
	"strings"
)

// StatusError is returned when the image host answers with a non-2xx status.
type StatusError struct {
	Host       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return friendlyHTTPStatusMessage(e.Host, e.StatusCode, e.Status)
}

func friendlyHTTPStatusMessage(host string, statusCode int, status string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	mk := func(base string) string {
		if hostIs(h, "unsplash.com") {
			return fmt.Sprintf("%s (Unsplash image CDN)", base)
		}
		return base
	}
	switch statusCode {
	case http.StatusTooManyRequests:
		return "429 Too Many Requests: rate limited"
	case http.StatusForbidden:
		return mk("403 Forbidden: the image URL may have expired; reopen the photo and retry")
	case http.StatusNotFound:
		return mk("404 Not Found: the photo may have been removed")
	default:
		if status == "" {
			return fmt.Sprintf("unexpected status %d", statusCode)
		}
		return "unexpected status: " + status
	}
}

// hostIs returns true if h equals root or is a subdomain of root.
func hostIs(h, root string) bool {
	h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
	root = strings.ToLower(strings.TrimSpace(root))
	return h == root || strings.HasSuffix(h, "."+root)
}

// hostFromURL extracts hostname from a URL string.
func hostFromURL(raw string) string {
	if u, err := neturl.Parse(raw); err == nil && u != nil {
		return u.Hostname()
	}
	return ""
}
