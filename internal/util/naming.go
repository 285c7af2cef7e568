package util

import (
	"path/filepath"
	"strings"
)

// ExpandPattern replaces tokens in the form {token} with values from the map.
// Unknown tokens are left as-is.
func ExpandPattern(pattern string, tokens map[string]string) string {
	p := pattern
	if strings.TrimSpace(p) == "" {
		return ""
	}
	for k, v := range tokens {
		p = strings.ReplaceAll(p, "{"+k+"}", strings.TrimSpace(v))
	}
	return p
}

// SafeFileName keeps [A-Za-z0-9._-], replaces every other run of runes with a
// single '-', and preserves the extension. Empty results become "wallpaper".
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "wallpaper"
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	var b strings.Builder
	prevDash := false
	for _, r := range base {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
		if ok {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	clean := strings.Trim(b.String(), "-.")
	if clean == "" {
		clean = "wallpaper"
	}
	return clean + ext
}
