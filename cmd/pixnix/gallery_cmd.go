package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/jxwalker/pixnix/internal/classifier"
	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/metrics"
	"github.com/jxwalker/pixnix/internal/tui"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Usage: "page number", Value: 1},
		&cli.IntFlag{Name: "per-page", Usage: "results per page (1-30, default: api.per_page)"},
		&cli.StringFlag{Name: "resolution", Usage: "minimum WIDTHxHEIGHT, e.g. 1920x1080", Value: gallery.ResolutionAll},
		&cli.StringFlag{Name: "device", Usage: "all|mobile|desktop", Value: string(gallery.DeviceAll)},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search wallpapers",
		ArgsUsage: "<term...>",
		Flags:     pageFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			term := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if term == "" {
				return errors.New("search term required")
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			return listPhotos(ctx, cmd, e, term)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list a category (fuzzy matched against gallery.categories)",
		ArgsUsage: "[category]",
		Flags:     pageFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			category := e.cfg.Gallery.DefaultCategory
			if arg := cmd.Args().First(); arg != "" {
				match, ok := gallery.Categories(e.cfg.Gallery.Categories).Match(arg)
				if !ok {
					return fmt.Errorf("no category matches %q (have: %s)", arg, strings.Join(e.cfg.Gallery.Categories, ", "))
				}
				category = match
			}
			e.log.Debugf("list category=%s", category)
			return listPhotos(ctx, cmd, e, gallery.SearchTerm(category))
		},
	}
}

// listPhotos fetches one page for term (empty means the listing endpoint),
// applies the resolution filter, and prints a table or JSON.
func listPhotos(ctx context.Context, cmd *cli.Command, e *env, term string) error {
	if err := e.requireKey(); err != nil {
		return err
	}
	device, ok := gallery.ParseDevice(cmd.String("device"))
	if !ok {
		return fmt.Errorf("invalid --device %q (all|mobile|desktop)", cmd.String("device"))
	}
	res := cmd.String("resolution")
	if _, _, ok := gallery.ParseResolution(res); !ok && res != gallery.ResolutionAll {
		return fmt.Errorf("invalid --resolution %q (e.g. 1920x1080)", res)
	}
	per := cmd.Int("per-page")
	if per <= 0 {
		per = e.cfg.API.PerPage
	}
	if per > unsplash.DefaultPerPage {
		return fmt.Errorf("--per-page must be between 1 and %d", unsplash.DefaultPerPage)
	}

	client := unsplash.New(e.cfg, e.log, metrics.New(e.cfg))
	photos, err := client.Fetch(ctx, unsplash.Query{
		Term:        term,
		Page:        max(cmd.Int("page"), 1),
		PerPage:     per,
		Orientation: unsplash.OrientationForDevice(string(device)),
	})
	if err != nil {
		return unsplash.Friendly(err, client.Host())
	}
	photos = gallery.FilterByResolution(photos, res)

	if e.json {
		enc := json.NewEncoder(stdout(cmd))
		enc.SetIndent("", "  ")
		return enc.Encode(photos)
	}
	return printPhotos(stdout(cmd), photos)
}

func printPhotos(w io.Writer, photos []unsplash.Photo) error {
	if len(photos) == 0 {
		_, err := fmt.Fprintln(w, gallery.MsgNoResults)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRESOLUTION\tORIENTATION\tAUTHOR\tTITLE")
	for _, p := range photos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Resolution(), classifier.Orientation(p.Width, p.Height), p.Author(), truncate(p.Title(), 48))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, gallery.CountLabel(len(photos)))
	return err
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "show one photo's details",
		ArgsUsage: "<photo-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "open", Usage: "open the photo page in the browser"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := strings.TrimSpace(cmd.Args().First())
			if id == "" {
				return errors.New("photo id required")
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := e.requireKey(); err != nil {
				return err
			}
			client := unsplash.New(e.cfg, e.log, metrics.New(e.cfg))
			p, err := client.Photo(ctx, id)
			if err != nil {
				return unsplash.Friendly(err, client.Host())
			}
			d := gallery.NewDetail(p, e.cfg.General.AppName, e.cfg.Download.FilenamePattern)
			if e.json {
				enc := json.NewEncoder(stdout(cmd))
				enc.SetIndent("", "  ")
				if err := enc.Encode(d); err != nil {
					return err
				}
			} else if err := printDetail(stdout(cmd), d); err != nil {
				return err
			}
			if cmd.Bool("open") {
				return tui.OpenInBrowser(d.PageURL)
			}
			return nil
		},
	}
}

func printDetail(w io.Writer, d gallery.Detail) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Title", d.Title},
		{"Author", d.Author},
		{"Resolution", d.Resolution},
		{"Orientation", d.Orientation},
		{"Likes", humanize.Comma(int64(d.Likes))},
		{"File", d.Filename},
		{"Photo", d.PageURL},
		{"Profile", d.AuthorURL},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
