package gallery

import (
	"fmt"

	"github.com/jxwalker/pixnix/internal/unsplash"
)

// Messages shown in place of the grid or alongside it.
const (
	MsgNoResults       = "No wallpapers found. Try a different search or category."
	MsgLoadFailed      = "Failed to load images. Please try again."
	NoticeAppendFailed = "Could not load more wallpapers. Please try again."
)

// State is the single owned application state. Only Controller.Update mutates it.
type State struct {
	Category       string
	CategoryActive bool
	Query          string
	Page           int
	Filters        Filters
	Loading        bool
	HasMore        bool
	Fetched        []unsplash.Photo // every record received for the current query
	Photos         []unsplash.Photo // what is rendered: Fetched filtered by resolution
	Message        string
	Notice         string
	Scrolled       bool
}

func NewState(category string) State {
	if category == "" {
		category = "nature"
	}
	return State{
		Category:       category,
		CategoryActive: true,
		Page:           1,
		Filters:        DefaultFilters(),
		HasMore:        true,
	}
}

// ShowLoadMore reports whether the load-more affordance is visible.
func (s State) ShowLoadMore() bool {
	return !s.Loading && s.HasMore && s.Message == ""
}

// Title is the heading above the grid.
func (s State) Title() string {
	if s.Query != "" {
		return fmt.Sprintf("Search: %q", s.Query)
	}
	return Capitalize(s.Category) + " Wallpapers"
}

func (s State) CountLabel() string { return CountLabel(len(s.Photos)) }

// EffectiveTerm is the API search term: the query if set, else the category.
func (s State) EffectiveTerm() string {
	if s.Query != "" {
		return s.Query
	}
	return SearchTerm(s.Category)
}
