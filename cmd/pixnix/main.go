package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jxwalker/pixnix/internal/config"
	friendlyerrors "github.com/jxwalker/pixnix/internal/errors"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	unsplash.Version = version
	if err := newApp().Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pixnix",
		Usage:   "browse and download Unsplash wallpapers from the terminal",
		Version: version,
		Suggest: true,
		Description: `With no command, pixnix opens the interactive gallery.

  pixnix                       open the gallery
  pixnix search mountain lake  search from the shell
  pixnix download <id>...      save wallpapers to general.download_root
  pixnix doctor                check config, key, and connectivity`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to YAML config file (default: $PIXNIX_CONFIG or ~/.config/pixnix/config.yml)",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug|info|warn|error (default: logging.level)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output and log lines",
			},
		},
		Action: tuiAction,
		Commands: []*cli.Command{
			tuiCommand(),
			searchCommand(),
			listCommand(),
			showCommand(),
			downloadCommand(),
			historyCommand(),
			libraryCommand(),
			themeCommand(),
			doctorCommand(),
			configCommand(),
			cacheCommand(),
			{
				Name:  "version",
				Usage: "print version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(stdout(cmd), version)
					return err
				},
			},
		},
	}
}

// env is what most commands need: the loaded config and a logger.
type env struct {
	cfg     *config.Config
	cfgPath string
	log     *logging.Logger
	json    bool
}

func configPath(cmd *cli.Command) string {
	if p := strings.TrimSpace(cmd.String("config")); p != "" {
		return p
	}
	return config.DefaultPath()
}

// setup loads the config (defaults when the file is missing) and a stderr logger.
func setup(cmd *cli.Command) (*env, error) {
	path := configPath(cmd)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	e := &env{cfg: cfg, cfgPath: path, json: cmd.Bool("json")}
	level := cmd.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	e.log = logging.NewWriter(stderr(cmd), level, e.jsonLogs())
	return e, nil
}

func (e *env) jsonLogs() bool {
	return e.json || strings.EqualFold(e.cfg.Logging.Format, "json")
}

// requireKey fails early with a fix-it hint instead of a 401 from the API.
func (e *env) requireKey() error {
	if e.cfg.AccessKey() != "" {
		return nil
	}
	return friendlyerrors.NewFriendlyError(
		"No Unsplash access key configured",
		fmt.Sprintf("Export your key before running pixnix:\n  export %s=...\nCreate one at https://unsplash.com/oauth/applications", e.cfg.API.AccessKeyEnv),
	)
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
