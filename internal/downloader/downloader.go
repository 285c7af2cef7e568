package downloader

import (
	"context"
	"path/filepath"

	"github.com/jxwalker/pixnix/internal/gallery"
)

// Request describes one wallpaper to store.
type Request struct {
	PhotoID string
	URL     string
	Dest    string
	Author  string
	Width   int
	Height  int
}

// Result is what a completed download produced.
type Result struct {
	Path   string
	SHA256 string
	Size   int64
	Format string
}

// Interface is the common downloader interface used by the TUI and CLI.
type Interface interface {
	Fetch(ctx context.Context, req Request) (Result, error)
}

// Saver adapts an Interface to the modal's gallery.Saver, placing files
// under root with the detail's precomputed filename.
type Saver struct {
	root string
	d    Interface
}

func NewSaver(root string, d Interface) *Saver {
	return &Saver{root: root, d: d}
}

func (s *Saver) Save(ctx context.Context, d gallery.Detail) (string, error) {
	res, err := s.d.Fetch(ctx, RequestFor(s.root, d))
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// RequestFor builds the request for d under root.
func RequestFor(root string, d gallery.Detail) Request {
	return Request{
		PhotoID: d.ID,
		URL:     d.DownloadURL,
		Dest:    filepath.Join(root, d.Filename),
		Author:  d.Author,
		Width:   d.Width,
		Height:  d.Height,
	}
}
