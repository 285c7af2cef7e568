package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jxwalker/pixnix/internal/classifier"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/util"
)

// Scanner walks wallpaper directories and matches files against the download history.
type Scanner struct {
	db *state.DB
}

func NewScanner(db *state.DB) *Scanner {
	return &Scanner{db: db}
}

// Entry is one image file found on disk.
type Entry struct {
	Path    string
	Size    int64
	Format  string
	ModTime time.Time
	PhotoID string // empty when the file is not in the history
}

func (e Entry) Tracked() bool { return e.PhotoID != "" }

// ScanResult contains information about a scan operation
type ScanResult struct {
	FilesScanned int
	Entries      []Entry
	Recorded     int
	Errors       []error
}

// ImageExtensions are file extensions we consider wallpapers.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".avif"}

// ScanDirectories scans dirs recursively. Missing directories are reported in
// Errors; unreadable subdirectories are skipped.
func (s *Scanner) ScanDirectories(dirs []string) (*ScanResult, error) {
	known, err := s.history()
	if err != nil {
		return nil, err
	}
	result := &ScanResult{}
	for _, dir := range dirs {
		if err := s.scanDirectory(dir, known, result); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("scanning %s: %w", dir, err))
		}
	}
	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].ModTime.After(result.Entries[j].ModTime)
	})
	return result, nil
}

func (s *Scanner) history() (map[string]string, error) {
	known := map[string]string{}
	if s.db == nil {
		return known, nil
	}
	rows, err := s.db.ListDownloads(0)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.Status == state.StatusComplete {
			known[filepath.Clean(r.Dest)] = r.PhotoID
		}
	}
	return known, nil
}

func (s *Scanner) scanDirectory(dir string, known map[string]string, result *ScanResult) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			if os.IsNotExist(err) {
				return err
			}
			return nil
		}
		if d.IsDir() || !isImageFile(path) {
			return nil
		}
		result.FilesScanned++
		info, err := d.Info()
		if err != nil {
			return nil
		}
		format := classifier.DetectImage(path)
		if format == "" {
			return nil
		}
		result.Entries = append(result.Entries, Entry{
			Path:    path,
			Size:    info.Size(),
			Format:  format,
			ModTime: info.ModTime(),
			PhotoID: known[filepath.Clean(path)],
		})
		return nil
	})
}

// Record adds untracked entries to the history, using the file name as the id.
func (s *Scanner) Record(result *ScanResult) error {
	if s.db == nil {
		return fmt.Errorf("no database")
	}
	for i, e := range result.Entries {
		if e.Tracked() {
			continue
		}
		sum, err := util.HashFileSHA256(e.Path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("hash %s: %w", e.Path, err))
			continue
		}
		id := strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
		if err := s.db.UpsertDownload(state.DownloadRow{
			PhotoID: id,
			Dest:    e.Path,
			SHA256:  sum,
			Size:    e.Size,
			Status:  state.StatusComplete,
		}); err != nil {
			return err
		}
		result.Entries[i].PhotoID = id
		result.Recorded++
	}
	return nil
}

func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
