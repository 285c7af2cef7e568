package unsplash

import (
	"fmt"
	"strings"
)

// Photo is one record returned by the photo API. Values are never mutated after decoding.
type Photo struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Likes          int    `json:"likes"`
	Color          string `json:"color,omitempty"`
	Description    string `json:"description,omitempty"`
	AltDescription string `json:"alt_description,omitempty"`
	User           User   `json:"user"`
	URLs           URLs   `json:"urls"`
	Links          Links  `json:"links"`
}

type User struct {
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Links    UserLinks `json:"links"`
}

type UserLinks struct {
	HTML string `json:"html"`
}

type URLs struct {
	Raw     string `json:"raw,omitempty"`
	Full    string `json:"full,omitempty"`
	Regular string `json:"regular,omitempty"`
	Small   string `json:"small,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
}

type Links struct {
	HTML             string `json:"html,omitempty"`
	Download         string `json:"download,omitempty"`
	DownloadLocation string `json:"download_location,omitempty"`
}

// Title is the display title shown on tiles and in the detail view.
func (p Photo) Title() string {
	if s := strings.TrimSpace(p.Description); s != "" {
		return s
	}
	if s := strings.TrimSpace(p.AltDescription); s != "" {
		return s
	}
	return "Beautiful Wallpaper"
}

// Alt is the accessible description of the image.
func (p Photo) Alt() string {
	if s := strings.TrimSpace(p.AltDescription); s != "" {
		return s
	}
	if s := strings.TrimSpace(p.Description); s != "" {
		return s
	}
	return "Wallpaper"
}

func (p Photo) Author() string {
	if p.User.Name != "" {
		return p.User.Name
	}
	if p.User.Username != "" {
		return p.User.Username
	}
	return "Unknown"
}

// BestURL picks the highest quality variant available for downloading.
func (p Photo) BestURL() string {
	for _, u := range []string{p.URLs.Full, p.URLs.Raw, p.URLs.Regular} {
		if u != "" {
			return u
		}
	}
	return ""
}

// PreviewURL is the small variant used for grid thumbnails.
func (p Photo) PreviewURL() string {
	for _, u := range []string{p.URLs.Small, p.URLs.Thumb, p.URLs.Regular} {
		if u != "" {
			return u
		}
	}
	return ""
}

func (p Photo) Resolution() string {
	return fmt.Sprintf("%d × %d", p.Width, p.Height)
}
