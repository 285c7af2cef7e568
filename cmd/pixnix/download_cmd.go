package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jxwalker/pixnix/internal/batch"
	"github.com/jxwalker/pixnix/internal/downloader"
	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/lockfile"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/metrics"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "download wallpapers by photo id",
		ArgsUsage: "<photo-id>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "destination directory (default: general.download_root)"},
			&cli.IntFlag{Name: "concurrency", Usage: "parallel downloads (default: download.concurrency)"},
			&cli.BoolFlag{Name: "no-track", Usage: "skip reporting the download to the API"},
			&cli.StringFlag{Name: "batch", Usage: "YAML file of jobs (id, dir, sha256) to download as well"},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	var jobs []batch.Job
	for _, id := range uniqueIDs(cmd.Args().Slice()) {
		jobs = append(jobs, batch.Job{ID: id})
	}
	if path := strings.TrimSpace(cmd.String("batch")); path != "" {
		f, err := batch.Load(path)
		if err != nil {
			return err
		}
		jobs = batch.Merge(jobs, f.Jobs...)
	}
	if len(jobs) == 0 {
		return errors.New("at least one photo id required")
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := e.requireKey(); err != nil {
		return err
	}
	cfg := e.cfg
	root := cfg.General.DownloadRoot
	if d := strings.TrimSpace(cmd.String("dir")); d != "" {
		root = d
	}
	limit := cmd.Int("concurrency")
	if limit <= 0 {
		limit = cfg.Download.Concurrency
	}

	lock, err := lockfile.Acquire(lockfile.DefaultPath(cfg.General.DataRoot))
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	st, err := state.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	m := metrics.New(cfg)
	client := unsplash.New(cfg, e.log, m)
	single := downloader.NewSingle(e.log, st, client.HTTP, m, client.UserAgent)
	track := !cmd.Bool("no-track")
	out := stdout(cmd)

	var (
		mu     sync.Mutex
		failed []string
	)
	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for _, job := range jobs {
		g.Go(func() error {
			dir := root
			if job.Dir != "" {
				dir = job.Dir
			}
			res, err := downloadOne(ctx, e, client, single, dir, job.ID, track)
			if err == nil && job.SHA256 != "" && res.SHA256 != job.SHA256 {
				_ = os.Remove(res.Path)
				err = fmt.Errorf("checksum mismatch: got %s, want %s", res.SHA256, job.SHA256)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, job.ID)
				e.log.Errorf("%s: %v", job.ID, firstLine(err))
				return nil
			}
			fmt.Fprintf(out, "%s -> %s (%s)\n", job.ID, res.Path, humanize.Bytes(uint64(res.Size)))
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d downloads failed: %s", len(failed), len(jobs), strings.Join(failed, ", "))
	}
	return nil
}

func downloadOne(ctx context.Context, e *env, client *unsplash.Client, d downloader.Interface, root, id string, track bool) (downloader.Result, error) {
	p, err := client.Photo(ctx, id)
	if err != nil {
		return downloader.Result{}, unsplash.Friendly(err, client.Host())
	}
	detail := gallery.NewDetail(p, e.cfg.General.AppName, e.cfg.Download.FilenamePattern)
	if track && detail.DownloadLocation != "" {
		// tracking failures never block the download
		if err := client.TrackDownload(ctx, detail.DownloadLocation); err != nil {
			e.log.Warnf("track %s: %v", id, err)
		}
	}
	e.log.Debugf("download %s from %s", id, logging.SanitizeURL(detail.DownloadURL))
	return d.Fetch(ctx, downloader.RequestFor(root, detail))
}

func uniqueIDs(args []string) []string {
	seen := make(map[string]bool, len(args))
	var out []string
	for _, a := range args {
		for _, id := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ' ' }) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func firstLine(err error) string {
	s, _, _ := strings.Cut(err.Error(), "\n")
	return s
}
