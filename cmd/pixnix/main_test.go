package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jxwalker/pixnix/internal/unsplash"
)

type fixture struct {
	srv     *httptest.Server
	cfgPath string
	dataDir string
	walls   string
	queries []string
	tracked atomic.Int32
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func photo(base, id string, w, h int) unsplash.Photo {
	return unsplash.Photo{
		ID:          id,
		Width:       w,
		Height:      h,
		Description: "photo " + id,
		User:        unsplash.User{Name: "Ann", Username: "ann"},
		URLs:        unsplash.URLs{Full: base + "/img/" + id},
		Links: unsplash.Links{
			HTML:             "https://unsplash.com/photos/" + id,
			DownloadLocation: base + "/photos/" + id + "/download",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	body := pngBytes(t)
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		f.queries = append(f.queries, r.URL.Query().Get("query"))
		writeJSON(w, map[string]any{
			"total":       2,
			"total_pages": 1,
			"results": []unsplash.Photo{
				photo(f.srv.URL, "small", 800, 600),
				photo(f.srv.URL, "big", 3840, 2160),
			},
		})
	})
	mux.HandleFunc("/photos", func(w http.ResponseWriter, r *http.Request) {
		f.queries = append(f.queries, "<listing>")
		writeJSON(w, []unsplash.Photo{photo(f.srv.URL, "new", 1920, 1080)})
	})
	mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/photos/")
		if strings.HasSuffix(rest, "/download") {
			f.tracked.Add(1)
			writeJSON(w, map[string]string{"url": "ok"})
			return
		}
		if rest == "missing" {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string][]string{"errors": {"Couldn't find Photo"}})
			return
		}
		writeJSON(w, photo(f.srv.URL, rest, 1920, 1080))
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	dir := t.TempDir()
	f.dataDir = filepath.Join(dir, "data")
	f.walls = filepath.Join(dir, "walls")
	f.cfgPath = filepath.Join(dir, "config.yml")
	cfg := fmt.Sprintf(`version: 1
general:
  data_root: %s
  download_root: %s
api:
  base_url: %s
  access_key: test-key
`, f.dataDir, f.walls, f.srv.URL)
	require.NoError(t, os.WriteFile(f.cfgPath, []byte(cfg), 0o644))
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"pixnix"}, args...))
	return out.String(), err
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return run(t, append([]string{"--config", f.cfgPath}, args...)...)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, version+"\n", out)
}

func TestSearchFiltersByResolution(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "search", "--resolution", "1920x1080", "mountain", "lake")
	require.NoError(t, err)
	require.Equal(t, []string{"mountain lake"}, f.queries)
	require.Contains(t, out, "big")
	require.NotContains(t, out, "small")
	require.Contains(t, out, "1 wallpaper")
}

func TestSearchRequiresTerm(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "search")
	require.ErrorContains(t, err, "search term required")
}

func TestListUsesFuzzyCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "list", "mnt")
	require.NoError(t, err)
	_, err = f.run(t, "list", "latest")
	require.NoError(t, err)
	require.Equal(t, []string{"mountain", "<listing>"}, f.queries)

	_, err = f.run(t, "list", "zzzz")
	require.ErrorContains(t, err, "no category matches")
}

func TestShowPrintsReferralLinks(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "show", "abc")
	require.NoError(t, err)
	require.Contains(t, out, "1920 × 1080")
	require.Contains(t, out, "utm_source=pixnix")
	require.Contains(t, out, "pixnix-abc-1920x1080.jpg")
}

func TestDownloadSavesAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "download", "abc,def", "abc")
	require.NoError(t, err)
	require.Contains(t, out, "abc -> ")
	require.Contains(t, out, "def -> ")
	require.EqualValues(t, 2, f.tracked.Load())
	require.FileExists(t, filepath.Join(f.walls, "pixnix-abc-1920x1080.jpg"))
	require.FileExists(t, filepath.Join(f.walls, "pixnix-def-1920x1080.jpg"))

	out, err = f.run(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "complete")
	require.Contains(t, out, "abc")
}

func TestDownloadReportsFailures(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "download", "--no-track", "missing", "abc")
	require.ErrorContains(t, err, "1 of 2 downloads failed: missing")
	require.Zero(t, f.tracked.Load())
	require.FileExists(t, filepath.Join(f.walls, "pixnix-abc-1920x1080.jpg"))
}

func TestThemeCommands(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "theme", "get")
	require.NoError(t, err)
	require.Equal(t, "light\n", out)

	out, err = f.run(t, "theme", "toggle")
	require.NoError(t, err)
	require.Equal(t, "dark\n", out)

	out, err = f.run(t, "theme", "get")
	require.NoError(t, err)
	require.Equal(t, "dark\n", out)

	_, err = f.run(t, "theme", "set", "blue")
	require.Error(t, err)
	out, err = f.run(t, "theme", "set", "light")
	require.NoError(t, err)
	require.Equal(t, "light\n", out)
}

func TestConfigInitValidatePrint(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "env-key")
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "wrote config")

	_, err = run(t, "--config", path, "config", "init")
	require.ErrorContains(t, err, "already exists")

	out, err = run(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	require.Contains(t, out, "config: valid")

	f := newFixture(t)
	out, err = f.run(t, "config", "print")
	require.NoError(t, err)
	require.Contains(t, out, "base_url: "+f.srv.URL)
	require.NotContains(t, out, "test-key")
	require.Contains(t, out, "-key")
}

func TestDoctorOffline(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "doctor", "--offline")
	require.NoError(t, err)
	require.Contains(t, out, "Unsplash access key")
	require.Contains(t, out, "Diagnostic Summary")
	require.NotContains(t, out, "test-key")
}

func TestDoctorOnlineChecksKey(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "doctor")
	require.NoError(t, err)
	require.Contains(t, out, "access key accepted")
}

func TestDoctorFailsWithoutKey(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	cfg := fmt.Sprintf("version: 1\ngeneral:\n  data_root: %s\n  download_root: %s\n", filepath.Join(dir, "d"), filepath.Join(dir, "w"))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out, err := run(t, "--config", path, "doctor", "--offline")
	require.ErrorContains(t, err, "checks failed")
	require.Contains(t, out, "UNSPLASH_ACCESS_KEY is not set")
}

func TestCacheClear(t *testing.T) {
	f := newFixture(t)
	cache := unsplash.CachePath(f.dataDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(cache), 0o755))
	require.NoError(t, os.WriteFile(cache, []byte("{}"), 0o644))
	_, err := f.run(t, "cache", "clear")
	require.NoError(t, err)
	require.NoFileExists(t, cache)
}

func TestUniqueIDs(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, uniqueIDs([]string{"a,b", "a", " c "}))
	require.Empty(t, uniqueIDs(nil))
}

func TestDownloadBatchFile(t *testing.T) {
	f := newFixture(t)
	phone := filepath.Join(t.TempDir(), "phone")
	jobs := filepath.Join(t.TempDir(), "jobs.yml")
	body := fmt.Sprintf("version: 1\njobs:\n  - id: ghi\n    dir: %s\n  - id: jkl\n    sha256: deadbeef\n", phone)
	require.NoError(t, os.WriteFile(jobs, []byte(body), 0o644))

	_, err := f.run(t, "download", "--no-track", "--batch", jobs)
	require.ErrorContains(t, err, "1 of 2 downloads failed: jkl")
	require.FileExists(t, filepath.Join(phone, "pixnix-ghi-1920x1080.jpg"))
	require.NoFileExists(t, filepath.Join(f.walls, "pixnix-jkl-1920x1080.jpg"))
}

func TestLibraryListsDownloads(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "download", "--no-track", "abc")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.walls, "mine.png"), pngBytes(t), 0o644))

	out, err := f.run(t, "library", "--untracked")
	require.NoError(t, err)
	require.Contains(t, out, "mine.png")
	require.NotContains(t, out, "pixnix-abc")

	out, err = f.run(t, "library", "--record")
	require.NoError(t, err)
	require.Contains(t, out, "2 wallpapers on disk, 1 recorded")
}
