package gallery

import (
	"fmt"

	"github.com/jxwalker/pixnix/internal/classifier"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

// Tile is one rendered grid entry. Src stays empty until the lazy loader
// activates it, at which point it is set to DeferredSrc exactly once.
type Tile struct {
	Photo       unsplash.Photo
	Title       string
	Byline      string
	Alt         string
	Orientation string
	DeferredSrc string
	Src         string
}

func newTile(p unsplash.Photo) *Tile {
	return &Tile{
		Photo:       p,
		Title:       p.Title(),
		Byline:      "by " + p.Author(),
		Alt:         p.Alt(),
		Orientation: classifier.Orientation(p.Width, p.Height),
		DeferredSrc: p.PreviewURL(),
	}
}

// Layout maps a tile index to its vertical bounds on the scroll surface.
type Layout interface {
	Bounds(index int) (top, height int)
}

// GridLayout places tiles left to right in fixed-height rows.
type GridLayout struct {
	Columns    int
	TileHeight int
	Offset     int // rows above the first tile row (title, filters)
}

func (g GridLayout) Bounds(index int) (top, height int) {
	cols := g.Columns
	if cols < 1 {
		cols = 1
	}
	return g.Offset + (index/cols)*g.TileHeight, g.TileHeight
}

// Height is the total surface height needed for n tiles.
func (g GridLayout) Height(n int) int {
	if n == 0 {
		return g.Offset
	}
	top, h := g.Bounds(n - 1)
	return top + h
}

// Grid owns the rendered tiles and the two photo lists on State.
type Grid struct {
	Tiles []*Tile
	Lazy  *LazyLoader
}

func NewGrid() *Grid {
	return &Grid{Lazy: NewLazyLoader()}
}

// Clear empties the grid and both photo lists.
func (g *Grid) Clear(s *State) {
	g.Tiles = nil
	g.Lazy.Reset()
	s.Fetched = nil
	s.Photos = nil
}

// Render adds records to the grid. A non-append render clears everything first.
// Survivors of the resolution filter are appended to Photos; records already
// present (by id) are skipped on append.
func (g *Grid) Render(s *State, records []unsplash.Photo, appendMode bool) {
	if !appendMode {
		g.Clear(s)
	}
	seen := make(map[string]bool, len(s.Fetched)+len(records))
	for _, p := range s.Fetched {
		seen[p.ID] = true
	}
	fresh := make([]unsplash.Photo, 0, len(records))
	for _, p := range records {
		if p.ID != "" && seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		fresh = append(fresh, p)
	}
	s.Fetched = append(s.Fetched, fresh...)
	for _, p := range FilterByResolution(fresh, s.Filters.Resolution) {
		s.Photos = append(s.Photos, p)
		t := newTile(p)
		g.Tiles = append(g.Tiles, t)
		g.Lazy.Track(t)
	}
}

// Refilter re-derives Photos and tiles from Fetched using the current filter.
// Tiles that were already activated keep their preview.
func (g *Grid) Refilter(s *State) {
	prev := make(map[string]*Tile, len(g.Tiles))
	for _, t := range g.Tiles {
		prev[t.Photo.ID] = t
	}
	g.Tiles = nil
	g.Lazy.Reset()
	s.Photos = FilterByResolution(s.Fetched, s.Filters.Resolution)
	for _, p := range s.Photos {
		if t, ok := prev[p.ID]; ok && t.Src != "" {
			g.Tiles = append(g.Tiles, t)
			continue
		}
		t := newTile(p)
		g.Tiles = append(g.Tiles, t)
		g.Lazy.Track(t)
	}
}

// CountLabel renders "N wallpaper" or "N wallpapers".
func CountLabel(n int) string {
	if n == 1 {
		return "1 wallpaper"
	}
	return fmt.Sprintf("%d wallpapers", n)
}
