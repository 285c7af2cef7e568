package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/jxwalker/pixnix/internal/downloader"
	"github.com/jxwalker/pixnix/internal/lockfile"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/metrics"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/tui"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

func tuiCommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "open the interactive gallery (default)",
		Action: tuiAction,
	}
}

func tuiAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command: %s", cmd.Args().First())
	}
	// First run: offer the wizard instead of silently using defaults.
	path := configPath(cmd)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := runWizard(ctx, cmd, path); err != nil {
			return err
		}
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := e.requireKey(); err != nil {
		return err
	}
	cfg := e.cfg

	lock, err := lockfile.Acquire(lockfile.DefaultPath(cfg.General.DataRoot))
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	level := cmd.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	log, closer, err := logging.OpenFile(cfg.LogPath(), level, e.jsonLogs())
	if err != nil {
		return fmt.Errorf("open log %s: %w", cfg.LogPath(), err)
	}
	defer func() { _ = closer.Close() }()

	st, err := state.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	m := metrics.New(cfg)
	client := unsplash.New(cfg, log, m)
	single := downloader.NewSingle(log, st, client.HTTP, m, client.UserAgent)

	log.Infof("tui start: category=%s per_page=%d", cfg.Gallery.DefaultCategory, cfg.API.PerPage)
	err = tui.Run(tui.Deps{
		Ctx:     ctx,
		Config:  cfg,
		Fetcher: client,
		Images:  client,
		Saver:   downloader.NewSaver(cfg.General.DownloadRoot, single),
		Tracker: client,
		Store:   st,
		Open:    tui.OpenInBrowser,
		Log:     log,
	})
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
