package downloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jxwalker/pixnix/internal/classifier"
	friendlyerrors "github.com/jxwalker/pixnix/internal/errors"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/metrics"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/system"
)

// Single streams one image into a .part file, hashes it on the way, and
// renames it into place once the body is complete and looks like an image.
type Single struct {
	log     *logging.Logger
	client  *http.Client
	st      *state.DB
	metrics *metrics.Manager
	ua      string
}

// NewSingle builds a downloader. st and m may be nil; client nil uses http.DefaultClient.
func NewSingle(log *logging.Logger, st *state.DB, client *http.Client, m *metrics.Manager, userAgent string) *Single {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Single{log: log, client: client, st: st, metrics: m, ua: userAgent}
}

func (s *Single) Fetch(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Result{}, errors.New("photo has no download url")
	}
	if req.Dest == "" {
		return Result{}, errors.New("destination path required")
	}
	start := time.Now()
	res, err := s.fetch(ctx, req)
	if err != nil {
		s.metrics.IncDownloadsFailed()
		s.record(req, Result{}, state.StatusError, err)
		_ = s.metrics.Write()
		return Result{}, err
	}
	s.metrics.IncDownloadsSuccess()
	s.metrics.AddBytes(res.Size)
	s.metrics.ObserveDownloadSeconds(time.Since(start).Seconds())
	_ = s.metrics.Write()
	s.record(req, res, state.StatusComplete, nil)
	s.log.Infof("saved %s (%s, %d bytes)", res.Path, res.Format, res.Size)
	return res, nil
}

func (s *Single) fetch(ctx context.Context, req Request) (Result, error) {
	dir := filepath.Dir(req.Dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, friendlyerrors.PathError(dir, err)
	}
	s.record(req, Result{}, state.StatusDownloading, nil)

	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return Result{}, err
	}
	if s.ua != "" {
		hreq.Header.Set("User-Agent", s.ua)
	}
	resp, err := s.client.Do(hreq)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return Result{}, &StatusError{Host: hostFromURL(req.URL), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if resp.ContentLength > 0 {
		ok, avail, err := system.HasSufficientSpace(dir, uint64(resp.ContentLength))
		if err == nil && !ok {
			return Result{}, friendlyerrors.DiskSpaceError(avail, uint64(resp.ContentLength))
		}
	}

	part := partPath(req.Dest)
	f, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Result{}, friendlyerrors.PathError(part, err)
	}
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(part)
		}
	}()

	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, hasher), resp.Body)
	if err != nil {
		_ = f.Close()
		return Result{}, fmt.Errorf("write %s: %w", filepath.Base(req.Dest), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return Result{}, err
	}
	if err := f.Close(); err != nil {
		return Result{}, err
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		return Result{}, fmt.Errorf("short body: got %d of %d bytes", n, resp.ContentLength)
	}

	format := classifier.DetectImage(part)
	if format == "" {
		return Result{}, fmt.Errorf("response from %s is not an image", hostFromURL(req.URL))
	}

	if err := renameOrCopy(part, req.Dest); err != nil {
		return Result{}, err
	}
	keep = true
	if err := fsyncDir(dir); err != nil {
		s.log.Debugf("fsync %s: %v", dir, err)
	}
	return Result{
		Path:   req.Dest,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
		Size:   n,
		Format: format,
	}, nil
}

func (s *Single) record(req Request, res Result, status string, cause error) {
	if s.st == nil {
		return
	}
	row := state.DownloadRow{
		PhotoID: req.PhotoID,
		URL:     req.URL,
		Dest:    req.Dest,
		Author:  req.Author,
		Width:   req.Width,
		Height:  req.Height,
		SHA256:  res.SHA256,
		Size:    res.Size,
		Status:  status,
	}
	if cause != nil {
		row.LastError = cause.Error()
	}
	if err := s.st.UpsertDownload(row); err != nil {
		s.log.Warnf("record download %s: %v", req.PhotoID, err)
	}
}
