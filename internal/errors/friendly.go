package errors

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// UserFriendlyError carries a message for the user, how to fix it, and the
// underlying cause for logs.
type UserFriendlyError struct {
	Message    string
	Suggestion string
	DocsLink   string
	Details    error
}

func (e *UserFriendlyError) Error() string {
	parts := []string{e.Message}
	if e.Suggestion != "" {
		parts = append(parts, "How to fix:\n"+e.Suggestion)
	}
	if e.DocsLink != "" {
		parts = append(parts, "Documentation: "+e.DocsLink)
	}
	return strings.Join(parts, "\n\n")
}

func (e *UserFriendlyError) Unwrap() error { return e.Details }

func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{Message: message, Suggestion: suggestion}
}

func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

func (e *UserFriendlyError) WithDocs(link string) *UserFriendlyError {
	e.DocsLink = link
	return e
}

// rule maps error text fragments to a message. The first matching rule wins.
type rule struct {
	needles    []string
	message    string
	suggestion string
}

func classify(err error, rules []rule, fallback rule) *UserFriendlyError {
	picked := fallback
	if err != nil {
		s := err.Error()
	search:
		for _, r := range rules {
			for _, n := range r.needles {
				if strings.Contains(s, n) {
					picked = r
					break search
				}
			}
		}
	}
	return &UserFriendlyError{Message: picked.message, Suggestion: picked.suggestion, Details: err}
}

var networkRules = []rule{
	{
		needles:    []string{"x509", "certificate"},
		message:    "SSL/TLS certificate verification failed",
		suggestion: "You may be behind a corporate proxy. Try:\n  export SSL_CERT_FILE=/path/to/cert.pem",
	},
	{
		needles:    []string{"no such host", "name resolution"},
		message:    "Cannot resolve hostname - DNS lookup failed",
		suggestion: "1. Check your internet connection\n2. Verify DNS settings\n3. Run: pixnix doctor",
	},
	{
		needles:    []string{"connection refused"},
		message:    "Server refused connection",
		suggestion: "The server may be down or blocking requests. Try again later.",
	},
	{
		needles:    []string{"timeout", "deadline exceeded"},
		message:    "Connection timed out",
		suggestion: "The API is slow or unreachable. Raise api.timeout_seconds or try again later.",
	},
}

// NetworkError explains a transport failure talking to the photo API or CDN.
func NetworkError(err error) *UserFriendlyError {
	return classify(err, networkRules, rule{
		message:    "Network error occurred",
		suggestion: "Check your internet connection and try again",
	})
}

// AuthError explains a rejected Unsplash access key.
func AuthError(host string, statusCode int, err error) *UserFriendlyError {
	if !strings.Contains(host, "unsplash.com") {
		msg := fmt.Sprintf("Authentication failed (%d)", statusCode)
		return &UserFriendlyError{Message: msg, Suggestion: "Check your access key", Details: err}
	}
	hint := "1. Set your key: export UNSPLASH_ACCESS_KEY=...\n" +
		"2. Create one at: https://unsplash.com/oauth/applications\n" +
		"3. Ensure the application is not suspended"
	return &UserFriendlyError{Message: "Unsplash rejected the access key", Suggestion: hint, Details: err}
}

// RateLimitError reports an exhausted hourly request quota.
func RateLimitError(remaining string, err error) *UserFriendlyError {
	msg := "Unsplash rate limit reached"
	if remaining != "" {
		msg += " (remaining: " + remaining + ")"
	}
	hint := "Demo applications allow 50 requests per hour. Wait and try again,\n" +
		"or enable the response cache:\n  cache:\n    ttl_minutes: 30"
	return &UserFriendlyError{Message: msg, Suggestion: hint, Details: err}
}

func DiskSpaceError(availableBytes, requiredBytes uint64) *UserFriendlyError {
	msg := fmt.Sprintf("Insufficient disk space: need %s but only %s available",
		humanize.IBytes(requiredBytes), humanize.IBytes(availableBytes))
	hint := fmt.Sprintf("Free up at least %s of disk space and try again",
		humanize.IBytes(requiredBytes-availableBytes))
	return NewFriendlyError(msg, hint)
}

// DatabaseError wraps failures opening the history database.
func DatabaseError(path string, err error) *UserFriendlyError {
	return classify(err, []rule{
		{
			needles:    []string{"locked", "busy"},
			message:    "History database is locked by another process",
			suggestion: "Close other pixnix instances and try again",
		},
		{
			needles:    []string{"corrupt", "malformed", "not a database"},
			message:    "History database is corrupted",
			suggestion: fmt.Sprintf("Move it aside and pixnix will start a fresh one:\n  mv %s %s.bak", path, path),
		},
	}, rule{
		message:    "Cannot open history database: " + path,
		suggestion: "Check that general.data_root is writable, then run: pixnix doctor",
	})
}

// PathError explains a filesystem failure at path.
func PathError(path string, err error) *UserFriendlyError {
	return classify(err, []rule{
		{
			needles:    []string{"permission denied"},
			message:    "Permission denied: " + path,
			suggestion: "Ensure you have write permission:\n  chmod u+w " + path,
		},
		{
			needles:    []string{"no such file or directory"},
			message:    "Directory does not exist: " + path,
			suggestion: "Create the directory:\n  mkdir -p " + path,
		},
		{
			needles:    []string{"not a directory"},
			message:    "Path exists but is not a directory: " + path,
			suggestion: "Remove the file or choose a different path",
		},
	}, rule{
		message:    "Path error: " + path,
		suggestion: "Check that the path exists and you have permission to access it",
	})
}
