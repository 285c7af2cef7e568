package unsplash

import "strings"

// Orientation is the hint sent to the search endpoint.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Squarish  Orientation = "squarish"
)

// OrientationForDevice maps the gallery's device filter to a search hint.
// mobile asks for portrait; everything else falls back to landscape.
func OrientationForDevice(device string) Orientation {
	switch strings.ToLower(strings.TrimSpace(device)) {
	case "mobile":
		return Portrait
	case "desktop":
		return Landscape
	default:
		return Landscape
	}
}
