package logging

import (
	"net/url"
	"strings"
)

// SanitizeURL removes userinfo, query, and fragment so access keys passed as
// client_id never reach a log line.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// RedactKey masks all but the last four characters of a credential.
func RedactKey(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return "(none)"
	}
	if len(k) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}
