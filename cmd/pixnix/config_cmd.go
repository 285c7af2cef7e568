package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/jxwalker/pixnix/internal/config"
	"github.com/jxwalker/pixnix/internal/logging"
	cw "github.com/jxwalker/pixnix/internal/tui/configwizard"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "validate, print, or create the YAML config",
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "validate the config file and report every problem",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := configPath(cmd)
					cfg, err := config.Load(path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if err := cfg.ValidateWithFriendlyErrors(); err != nil {
						return err
					}
					_, err = fmt.Fprintf(stdout(cmd), "config: valid (%s)\n", path)
					return err
				},
			},
			{
				Name:  "print",
				Usage: "print the effective config as YAML (access key redacted)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e, err := setup(cmd)
					if err != nil {
						return err
					}
					c := *e.cfg
					if c.API.AccessKey != "" {
						c.API.AccessKey = logging.RedactKey(c.API.AccessKey)
					}
					b, err := yaml.Marshal(&c)
					if err != nil {
						return err
					}
					_, err = stdout(cmd).Write(b)
					return err
				},
			},
			{
				Name:  "init",
				Usage: "write a config file with defaults",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "wizard", Usage: "fill in the main settings interactively"},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := configPath(cmd)
					if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					}
					if cmd.Bool("wizard") {
						return runWizard(ctx, cmd, path)
					}
					return writeConfig(cmd, path, config.Default())
				},
			},
		},
	}
}

// runWizard collects settings interactively and writes them to path.
func runWizard(ctx context.Context, cmd *cli.Command, path string) error {
	p := tea.NewProgram(cw.New(config.Default()), tea.WithContext(ctx))
	m, err := p.Run()
	if err != nil {
		return err
	}
	wiz, ok := m.(*cw.Wizard)
	if !ok {
		return errors.New("unexpected model type from wizard")
	}
	cfg := wiz.Config()
	if cfg == nil {
		return errors.New("config wizard was cancelled")
	}
	return writeConfig(cmd, path, cfg)
}

func writeConfig(cmd *cli.Command, path string, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout(cmd), "wrote config to %s\n", path)
	return err
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "manage the API response cache",
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "delete cached API responses",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					e, err := setup(cmd)
					if err != nil {
						return err
					}
					path := unsplash.CachePath(e.cfg.General.DataRoot)
					if err := unsplash.ClearCache(path); err != nil {
						return err
					}
					_, err = fmt.Fprintf(stdout(cmd), "cleared %s\n", path)
					return err
				},
			},
		},
	}
}
