package classifier

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOrientation(t *testing.T) {
	cases := []struct {
		w, h int
		want string
	}{
		{1920, 1080, Landscape},
		{1080, 1920, Portrait},
		{1000, 1000, Square},
		{1020, 1000, Square},
		{6000, 2000, Panorama},
		{0, 0, Landscape},
	}
	for _, c := range cases {
		if got := Orientation(c.w, c.h); got != c.want {
			t.Errorf("Orientation(%d,%d)=%s want %s", c.w, c.h, got, c.want)
		}
	}
}

func TestDetectImage(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"a.jpg":  {0xFF, 0xD8, 0xFF, 0xE0, 0, 0},
		"b.png":  {0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0},
		"c.webp": []byte("RIFF\x00\x00\x00\x00WEBPVP8 "),
		"d.html": []byte("<!doctype html>"),
		"e":      {},
	}
	want := map[string]string{"a.jpg": JPEG, "b.png": PNG, "c.webp": WebP, "d.html": "", "e": ""}
	for name, b := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, b, 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		if got := DetectImage(p); got != want[name] {
			t.Errorf("DetectImage(%s)=%q want %q", name, got, want[name])
		}
	}
	if got := DetectImage(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("missing file: got %q", got)
	}
}
