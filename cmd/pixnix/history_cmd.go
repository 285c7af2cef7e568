package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/scanner"
	"github.com/jxwalker/pixnix/internal/state"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "show recent downloads",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "rows to show (0 = all)", Value: 20},
			&cli.BoolFlag{Name: "only-errors", Usage: "show only failed downloads"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			st, err := state.Open(e.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			rows, err := st.ListDownloads(cmd.Int("limit"))
			if err != nil {
				return err
			}
			if cmd.Bool("only-errors") {
				var filt []state.DownloadRow
				for _, r := range rows {
					if r.Status == state.StatusError {
						filt = append(filt, r)
					}
				}
				rows = filt
			}
			if e.json {
				enc := json.NewEncoder(stdout(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(rows) == 0 {
				_, err := fmt.Fprintln(stdout(cmd), "No downloads yet.")
				return err
			}
			tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSTATUS\tPHOTO\tSIZE\tPATH")
			for _, r := range rows {
				when := humanize.Time(time.Unix(r.UpdatedAt, 0))
				size := "-"
				if r.Size > 0 {
					size = humanize.Bytes(uint64(r.Size))
				}
				detail := r.Dest
				if r.LastError != "" {
					detail = r.LastError
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", when, r.Status, r.PhotoID, size, detail)
			}
			return tw.Flush()
		},
	}
}

func themeCommand() *cli.Command {
	withTheme := func(fn func(cmd *cli.Command, t *gallery.ThemeToggle) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			st, err := state.Open(e.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			return fn(cmd, gallery.LoadTheme(st, e.log))
		}
	}
	return &cli.Command{
		Name:  "theme",
		Usage: "get, toggle, or set the light/dark preference",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "print the current theme",
				Action: withTheme(func(cmd *cli.Command, t *gallery.ThemeToggle) error {
					_, err := fmt.Fprintln(stdout(cmd), t.Current())
					return err
				}),
			},
			{
				Name:  "toggle",
				Usage: "flip between light and dark",
				Action: withTheme(func(cmd *cli.Command, t *gallery.ThemeToggle) error {
					next, err := t.Toggle()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(stdout(cmd), next)
					return err
				}),
			},
			{
				Name:      "set",
				Usage:     "set the theme",
				ArgsUsage: "light|dark",
				Action: withTheme(func(cmd *cli.Command, t *gallery.ThemeToggle) error {
					v := strings.ToLower(strings.TrimSpace(cmd.Args().First()))
					if v != string(gallery.ThemeLight) && v != string(gallery.ThemeDark) {
						return fmt.Errorf("theme must be light or dark, got %q", v)
					}
					if err := t.Set(gallery.Theme(v)); err != nil {
						return err
					}
					_, err := fmt.Fprintln(stdout(cmd), t.Current())
					return err
				}),
			},
		},
	}
}

func libraryCommand() *cli.Command {
	return &cli.Command{
		Name:      "library",
		Usage:     "list wallpapers on disk and whether they are in the history",
		ArgsUsage: "[dir...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "untracked", Usage: "show only files missing from the history"},
			&cli.BoolFlag{Name: "record", Usage: "add untracked files to the history"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			st, err := state.Open(e.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			dirs := cmd.Args().Slice()
			if len(dirs) == 0 {
				dirs = []string{e.cfg.General.DownloadRoot}
			}
			s := scanner.NewScanner(st)
			res, err := s.ScanDirectories(dirs)
			if err != nil {
				return err
			}
			if cmd.Bool("record") {
				if err := s.Record(res); err != nil {
					return err
				}
			}
			for _, err := range res.Errors {
				e.log.Warnf("%v", err)
			}
			entries := res.Entries
			if cmd.Bool("untracked") {
				entries = entries[:0:0]
				for _, en := range res.Entries {
					if !en.Tracked() {
						entries = append(entries, en)
					}
				}
			}
			if e.json {
				enc := json.NewEncoder(stdout(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODIFIED\tFORMAT\tSIZE\tPHOTO\tPATH")
			for _, en := range entries {
				id := en.PhotoID
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", humanize.Time(en.ModTime), en.Format, humanize.Bytes(uint64(en.Size)), id, en.Path)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout(cmd), "%s on disk, %d recorded\n", gallery.CountLabel(len(entries)), res.Recorded)
			return err
		},
	}
}
