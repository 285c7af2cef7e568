package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jxwalker/pixnix/internal/config"
)

// Manager accumulates counters and flushes them as a Prometheus textfile.
// All methods are safe on a nil *Manager, which is what New returns when metrics are disabled.
type Manager struct {
	path string
	mu   sync.Mutex

	pagesFetched     int64
	apiErrors        int64
	bytesTotal       int64
	downloadsSuccess int64
	downloadsFailed  int64
	trackingFailures int64
	lastDownloadSec  float64
}

func New(cfg *config.Config) *Manager {
	if cfg == nil || !cfg.Metrics.PrometheusTextfile.Enabled || cfg.Metrics.PrometheusTextfile.Path == "" {
		return nil
	}
	p := cfg.Metrics.PrometheusTextfile.Path
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	return &Manager{path: p}
}

func (m *Manager) IncPagesFetched() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.pagesFetched++
	m.mu.Unlock()
}

func (m *Manager) IncAPIErrors() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.apiErrors++
	m.mu.Unlock()
}

func (m *Manager) AddBytes(n int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.bytesTotal += n
	m.mu.Unlock()
}

func (m *Manager) IncDownloadsSuccess() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.downloadsSuccess++
	m.mu.Unlock()
}

func (m *Manager) IncDownloadsFailed() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.downloadsFailed++
	m.mu.Unlock()
}

func (m *Manager) IncTrackingFailures() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.trackingFailures++
	m.mu.Unlock()
}

func (m *Manager) ObserveDownloadSeconds(sec float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.lastDownloadSec = sec
	m.mu.Unlock()
}

func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.CreateTemp(filepath.Dir(m.path), ".metrics.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	writeCounter(f, "pixnix_pages_fetched_total", "Gallery pages fetched from the API.", m.pagesFetched)
	writeCounter(f, "pixnix_api_errors_total", "Failed API requests.", m.apiErrors)
	writeCounter(f, "pixnix_bytes_downloaded_total", "Total wallpaper bytes downloaded.", m.bytesTotal)
	writeCounter(f, "pixnix_downloads_success_total", "Total successful downloads.", m.downloadsSuccess)
	writeCounter(f, "pixnix_downloads_failed_total", "Total failed downloads.", m.downloadsFailed)
	writeCounter(f, "pixnix_tracking_failures_total", "Attribution tracking requests that failed.", m.trackingFailures)

	fmt.Fprintf(f, "# HELP pixnix_last_download_seconds Duration of the last completed download in seconds.\n")
	fmt.Fprintf(f, "# TYPE pixnix_last_download_seconds gauge\n")
	fmt.Fprintf(f, "pixnix_last_download_seconds %.6f\n", m.lastDownloadSec)

	fmt.Fprintf(f, "# HELP pixnix_metrics_timestamp_seconds UNIX timestamp when this file was written.\n")
	fmt.Fprintf(f, "# TYPE pixnix_metrics_timestamp_seconds gauge\n")
	fmt.Fprintf(f, "pixnix_metrics_timestamp_seconds %d\n", time.Now().Unix())

	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), m.path)
}

func writeCounter(w io.Writer, name, help string, v int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s counter\n", name)
	fmt.Fprintf(w, "%s %d\n", name, v)
}
