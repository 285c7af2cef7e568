package gallery

import (
	"strconv"
	"strings"

	"github.com/jxwalker/pixnix/internal/unsplash"
)

// ResolutionAll disables the minimum-resolution filter.
const ResolutionAll = "all"

// Bucket is a named resolution threshold offered in the filter bar.
type Bucket struct {
	Value string
	Label string
}

var ResolutionBuckets = []Bucket{
	{ResolutionAll, "All"},
	{"1280x720", "HD"},
	{"1920x1080", "Full HD"},
	{"2560x1440", "QHD"},
	{"3840x2160", "4K"},
}

// Device is the orientation filter. It only influences the search hint sent to the API.
type Device string

const (
	DeviceAll     Device = "all"
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

var Devices = []Device{DeviceAll, DeviceMobile, DeviceDesktop}

// Filters is the active filter selection.
type Filters struct {
	Resolution string
	Device     Device
}

func DefaultFilters() Filters {
	return Filters{Resolution: ResolutionAll, Device: DeviceAll}
}

// ParseResolution parses "WxH". ok is false for "all" and anything malformed.
func ParseResolution(res string) (w, h int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(res))
	if s == "" || s == ResolutionAll {
		return 0, 0, false
	}
	ws, hs, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w < 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h < 0 {
		return 0, 0, false
	}
	return w, h, true
}

// FilterByResolution keeps records at least as large as res in both
// dimensions, preserving order. "all" and unparsable specs return a copy of the input.
func FilterByResolution(records []unsplash.Photo, res string) []unsplash.Photo {
	w, h, ok := ParseResolution(res)
	out := make([]unsplash.Photo, 0, len(records))
	for _, p := range records {
		if ok && (p.Width < w || p.Height < h) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func BucketLabel(value string) string {
	for _, b := range ResolutionBuckets {
		if b.Value == value {
			return b.Label
		}
	}
	return value
}

func ParseDevice(s string) (Device, bool) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceAll:
		return DeviceAll, true
	case DeviceMobile:
		return DeviceMobile, true
	case DeviceDesktop:
		return DeviceDesktop, true
	}
	return DeviceAll, false
}
