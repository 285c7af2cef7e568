package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPattern(t *testing.T) {
	pat := "pixnix-{id}-{width}x{height}.jpg"
	toks := map[string]string{
		"id":     "abc",
		"width":  "1920",
		"height": " 1080 ",
	}
	if got := ExpandPattern(pat, toks); got != "pixnix-abc-1920x1080.jpg" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := ExpandPattern("{unknown}-{id}", toks); got != "{unknown}-abc" {
		t.Fatalf("unexpected: %q", got)
	}
	if ExpandPattern("", toks) != "" {
		t.Fatalf("expected empty for empty pattern")
	}
}

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"foo/bar.jpg":          "foo-bar.jpg",
		"  spaced name  ":      "spaced-name",
		"pixnix-a_B-10x20.jpg": "pixnix-a_B-10x20.jpg",
		"../../etc/passwd":     "etc-passwd",
		"":                     "wallpaper",
	}
	for in, want := range cases {
		if got := SafeFileName(in); got != want {
			t.Fatalf("SafeFileName(%q)=%q want %q", in, got, want)
		}
	}
}

func TestHashFileSHA256(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := HashFileSHA256(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("unexpected hash %s", got)
	}
	r, err := HashReaderSHA256(strings.NewReader("hello"))
	if err != nil || r != got {
		t.Fatalf("reader hash mismatch: %s %v", r, err)
	}
}
