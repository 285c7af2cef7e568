package config

import (
	"fmt"
	"strings"

	friendlyerrors "github.com/jxwalker/pixnix/internal/errors"
)

// ValidationError represents a detailed config validation error
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Config validation error in '%s': %s", e.Field, e.Message)
}

// ValidateDetailed reports every problem it can find instead of stopping at the first.
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.Version != 1 {
		errs = append(errs, ValidationError{
			Field:      "version",
			Value:      c.Version,
			Message:    fmt.Sprintf("Unsupported version: %d", c.Version),
			Suggestion: "Use version: 1",
		})
	}

	if c.General.DataRoot == "" {
		errs = append(errs, ValidationError{
			Field:      "general.data_root",
			Message:    "Required field missing",
			Suggestion: "Set to a directory for pixnix data:\n  data_root: ~/.local/share/pixnix",
		})
	}
	if c.General.DownloadRoot == "" {
		errs = append(errs, ValidationError{
			Field:      "general.download_root",
			Message:    "Required field missing",
			Suggestion: "Set to a directory for wallpapers:\n  download_root: ~/Pictures/pixnix",
		})
	}

	if c.AccessKey() == "" {
		env := c.API.AccessKeyEnv
		if env == "" {
			env = DefaultAccessKeyEnv
		}
		errs = append(errs, ValidationError{
			Field:      "api.access_key",
			Message:    fmt.Sprintf("No Unsplash access key configured and %s is not set", env),
			Suggestion: fmt.Sprintf("Set the key:\n  export %s=...\n  Create one at: https://unsplash.com/oauth/applications", env),
		})
	}

	if c.API.PerPage < 1 || c.API.PerPage > 30 {
		errs = append(errs, ValidationError{
			Field:      "api.per_page",
			Value:      c.API.PerPage,
			Message:    "Must be between 1 and 30",
			Suggestion: "The API caps page size at 30:\n  per_page: 30",
		})
	}

	if c.Gallery.DebounceMS > 5000 {
		errs = append(errs, ValidationError{
			Field:      "gallery.debounce_ms",
			Value:      c.Gallery.DebounceMS,
			Message:    "Debounce is very long; search will feel unresponsive",
			Suggestion: "Typical values are 250-750:\n  debounce_ms: 500",
		})
	}

	seen := map[string]bool{}
	for _, cat := range c.Gallery.Categories {
		k := strings.ToLower(strings.TrimSpace(cat))
		if k == "" {
			errs = append(errs, ValidationError{
				Field:      "gallery.categories",
				Message:    "Empty category name",
				Suggestion: "Remove blank entries from the list",
			})
			continue
		}
		if seen[k] {
			errs = append(errs, ValidationError{
				Field:      "gallery.categories",
				Value:      cat,
				Message:    "Duplicate category",
				Suggestion: "List each category once",
			})
		}
		seen[k] = true
	}
	if len(c.Gallery.Categories) > 0 && !seen[strings.ToLower(c.Gallery.DefaultCategory)] {
		errs = append(errs, ValidationError{
			Field:      "gallery.default_category",
			Value:      c.Gallery.DefaultCategory,
			Message:    "Default category is not in gallery.categories",
			Suggestion: "Add it to the list or pick one of: " + strings.Join(c.Gallery.Categories, ", "),
		})
	}

	if !strings.Contains(c.Download.FilenamePattern, "{id}") {
		errs = append(errs, ValidationError{
			Field:      "download.filename_pattern",
			Value:      c.Download.FilenamePattern,
			Message:    "Pattern must include {id} so files do not collide",
			Suggestion: "Use the default:\n  filename_pattern: " + DefaultPattern,
		})
	}

	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		errs = append(errs, ValidationError{
			Field:      "metrics.prometheus_textfile.path",
			Message:    "Metrics enabled but no path set",
			Suggestion: "Set a path:\n  path: ~/.local/share/pixnix/metrics.prom",
		})
	}

	return errs
}

// ValidateWithFriendlyErrors returns a user-friendly validation error
func (c *Config) ValidateWithFriendlyErrors() error {
	if err := c.Validate(); err != nil {
		return err
	}
	errs := c.ValidateDetailed()
	if len(errs) == 0 {
		return nil
	}

	var msg strings.Builder
	msg.WriteString("Configuration validation failed:\n\n")
	for i, err := range errs {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
		if err.Value != nil {
			msg.WriteString(fmt.Sprintf("   Current value: %v\n", err.Value))
		}
		if err.Suggestion != "" {
			for _, line := range strings.Split(err.Suggestion, "\n") {
				msg.WriteString(fmt.Sprintf("   → %s\n", line))
			}
		}
		msg.WriteString("\n")
	}

	return friendlyerrors.NewFriendlyError(
		"Config validation failed",
		msg.String(),
	).WithDocs("https://github.com/jxwalker/pixnix#configuration")
}
