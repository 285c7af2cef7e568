package gallery

// LazyLoader defers preview loading until a tile nears the visible window.
type LazyLoader struct {
	pending map[*Tile]bool
}

func NewLazyLoader() *LazyLoader {
	return &LazyLoader{pending: map[*Tile]bool{}}
}

func (l *LazyLoader) Track(t *Tile) {
	if t == nil || t.Src != "" || t.DeferredSrc == "" {
		return
	}
	l.pending[t] = true
}

func (l *LazyLoader) Reset() {
	l.pending = map[*Tile]bool{}
}

// Pending is the number of tiles still waiting for activation.
func (l *LazyLoader) Pending() int { return len(l.pending) }

// Scan activates every tracked tile whose bounds intersect
// [top-margin, top+height+margin). Activated tiles get Src assigned and are
// no longer tracked. Results are in tile order.
func (l *LazyLoader) Scan(tiles []*Tile, layout Layout, top, height, margin int) []*Tile {
	if len(l.pending) == 0 {
		return nil
	}
	lo, hi := top-margin, top+height+margin
	var out []*Tile
	for i, t := range tiles {
		if !l.pending[t] {
			continue
		}
		tTop, tH := layout.Bounds(i)
		if tTop < hi && tTop+tH > lo {
			t.Src = t.DeferredSrc
			delete(l.pending, t)
			out = append(out, t)
		}
	}
	return out
}
