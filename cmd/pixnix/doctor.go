package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/jxwalker/pixnix/internal/config"
	perrors "github.com/jxwalker/pixnix/internal/errors"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/system"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

// Check represents a single diagnostic check
type Check struct {
	Name     string
	Run      func(ctx context.Context) CheckResult
	Critical bool // If true, failure suggests pixnix won't work
}

// CheckResult represents the result of a diagnostic check
type CheckResult struct {
	Passed     bool
	Warning    bool // Passed but with warnings
	Message    string
	Suggestion string
}

func doctorCommand() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "diagnose config, access key, connectivity, and storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "show timing for each check"},
			&cli.BoolFlag{Name: "offline", Usage: "skip network checks"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := configPath(cmd)
			cfg, cfgErr := config.LoadOrDefault(path)
			checks := doctorChecks(path, cfg, cfgErr, cmd.Bool("offline"))
			return runChecks(ctx, stdout(cmd), checks, cmd.Bool("verbose"))
		},
	}
}

func doctorChecks(cfgPath string, cfg *config.Config, cfgErr error, offline bool) []Check {
	notLoaded := CheckResult{Passed: false, Message: "Config not loaded"}
	checks := []Check{
		{
			Name: "Config file",
			Run: func(ctx context.Context) CheckResult {
				if _, err := os.Stat(cfgPath); err != nil {
					return CheckResult{
						Passed:     true,
						Warning:    true,
						Message:    fmt.Sprintf("Not found: %s (using defaults)", cfgPath),
						Suggestion: "Create one with: pixnix config init --wizard",
					}
				}
				return CheckResult{Passed: true, Message: fmt.Sprintf("Found: %s", cfgPath)}
			},
		},
		{
			Name:     "Config is valid",
			Critical: true,
			Run: func(ctx context.Context) CheckResult {
				if cfgErr != nil {
					return CheckResult{
						Passed:     false,
						Message:    "Config parsing failed",
						Suggestion: fmt.Sprintf("Fix config errors:\n%v\n\nRun 'pixnix config validate' for details", cfgErr),
					}
				}
				return CheckResult{Passed: true, Message: "Valid"}
			},
		},
		{
			Name:     "Unsplash access key",
			Critical: true,
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				key := cfg.AccessKey()
				if key == "" {
					return CheckResult{
						Passed:     false,
						Message:    fmt.Sprintf("%s is not set", cfg.API.AccessKeyEnv),
						Suggestion: fmt.Sprintf("export %s=...\nCreate a key at: https://unsplash.com/oauth/applications", cfg.API.AccessKeyEnv),
					}
				}
				return CheckResult{Passed: true, Message: "Set (" + logging.RedactKey(key) + ")"}
			},
		},
		{
			Name:     "Download directory exists and is writable",
			Critical: true,
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				return checkWritable(cfg.General.DownloadRoot)
			},
		},
		{
			Name: "Disk space available",
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				usage, err := system.DiskUsage(cfg.General.DownloadRoot)
				available := usage.Available
				if err != nil {
					return CheckResult{Passed: true, Warning: true, Message: fmt.Sprintf("Could not check disk space: %v", err)}
				}
				if available < 100<<20 {
					return CheckResult{
						Passed:     false,
						Message:    fmt.Sprintf("Very low disk space: %s", humanize.Bytes(available)),
						Suggestion: "Free up disk space before downloading wallpapers",
					}
				}
				if available < 1<<30 {
					return CheckResult{Passed: true, Warning: true, Message: fmt.Sprintf("Low disk space: %s free", humanize.Bytes(available))}
				}
				return CheckResult{Passed: true, Message: fmt.Sprintf("%s available (%.0f%% used)", humanize.Bytes(available), usage.UsedPercent())}
			},
		},
		{
			Name:     "Database accessible",
			Critical: true,
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				db, err := state.Open(cfg)
				if err != nil {
					res := CheckResult{Message: fmt.Sprintf("Cannot open database: %v", firstLine(err))}
					var fe *perrors.UserFriendlyError
					if errors.As(err, &fe) {
						res.Message, res.Suggestion = fe.Message, fe.Suggestion
					}
					return res
				}
				defer func() { _ = db.Close() }()
				return CheckResult{Passed: true, Message: fmt.Sprintf("Database OK: %s", db.Path)}
			},
		},
		{
			Name: "Partial downloads",
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				n := countParts(cfg.General.DownloadRoot)
				if n == 0 {
					return CheckResult{Passed: true, Message: "No orphaned .part files"}
				}
				return CheckResult{
					Passed:     true,
					Warning:    true,
					Message:    fmt.Sprintf("Found %d .part file(s)", n),
					Suggestion: fmt.Sprintf("Remove them: find %s -name '*.part' -delete", cfg.General.DownloadRoot),
				}
			},
		},
	}
	if offline {
		return checks
	}
	return append(checks,
		Check{
			Name: "Proxy settings",
			Run: func(ctx context.Context) CheckResult {
				proxies := system.DetectProxySettings()
				if len(proxies) == 0 {
					return CheckResult{Passed: true, Message: "No proxy configured"}
				}
				keys := make([]string, 0, len(proxies))
				for k := range proxies {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				return CheckResult{Passed: true, Message: "Using " + strings.Join(keys, ", ")}
			},
		},
		Check{
			Name:     "Unsplash API reachable",
			Critical: true,
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return notLoaded
				}
				ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				client := unsplash.New(cfg, logging.Discard(), nil)
				status, err := system.CheckHTTP(ctx, client.HTTP, cfg.API.BaseURL)
				if err != nil {
					return CheckResult{Passed: false, Message: firstLine(err), Suggestion: "Check your network connection and api.base_url"}
				}
				if cfg.AccessKey() == "" {
					return CheckResult{Passed: true, Warning: true, Message: fmt.Sprintf("Reachable (HTTP %d); key not checked", status)}
				}
				if _, err := client.Fetch(ctx, unsplash.Query{PerPage: 1}); err != nil {
					return CheckResult{Passed: false, Message: "Reachable but the API rejected the request", Suggestion: firstLine(unsplash.Friendly(err, client.Host()))}
				}
				return CheckResult{Passed: true, Message: "Reachable; access key accepted"}
			},
		},
	)
}

func checkWritable(dir string) CheckResult {
	if dir == "" {
		return CheckResult{Passed: false, Message: "general.download_root not set in config", Suggestion: "Add download_root to your config file"}
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return CheckResult{
				Passed:     false,
				Message:    fmt.Sprintf("Directory doesn't exist and can't be created: %s", dir),
				Suggestion: fmt.Sprintf("Create manually: mkdir -p %s", dir),
			}
		}
		return CheckResult{Passed: true, Warning: true, Message: fmt.Sprintf("Created directory: %s", dir)}
	}
	if err != nil {
		return CheckResult{Passed: false, Message: fmt.Sprintf("Cannot access: %s", err), Suggestion: "Check file permissions"}
	}
	if !info.IsDir() {
		return CheckResult{Passed: false, Message: "Path exists but is not a directory", Suggestion: "Remove the file or choose a different download_root"}
	}
	probe := filepath.Join(dir, ".pixnix_write_test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return CheckResult{Passed: false, Message: "Directory is not writable", Suggestion: fmt.Sprintf("Fix permissions: chmod u+w %s", dir)}
	}
	_ = os.Remove(probe)
	return CheckResult{Passed: true, Message: fmt.Sprintf("Writable: %s", dir)}
}

func countParts(root string) int {
	n := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".part") {
			n++
		}
		return nil
	})
	return n
}

func runChecks(ctx context.Context, w io.Writer, checks []Check, verbose bool) error {
	fmt.Fprintln(w, "Running pixnix diagnostics...")
	fmt.Fprintln(w)
	var passed, failed, warned int
	for _, check := range checks {
		start := time.Now()
		result := check.Run(ctx)

		symbol := "✓"
		switch {
		case !result.Passed:
			symbol = "✗"
			if check.Critical {
				failed++
			} else {
				warned++
			}
		case result.Warning:
			symbol = "⚠"
			warned++
			passed++
		default:
			passed++
		}

		fmt.Fprintf(w, "%s %s", symbol, check.Name)
		if verbose {
			fmt.Fprintf(w, " (%.2fs)", time.Since(start).Seconds())
		}
		fmt.Fprintln(w)
		if result.Message != "" {
			fmt.Fprintf(w, "  %s\n", result.Message)
		}
		if result.Suggestion != "" {
			for _, line := range strings.Split(result.Suggestion, "\n") {
				fmt.Fprintf(w, "  → %s\n", line)
			}
		}
	}

	fmt.Fprintf(w, "\nDiagnostic Summary:\n")
	fmt.Fprintf(w, "  Total checks: %d\n", len(checks))
	fmt.Fprintf(w, "  Passed:       %d\n", passed)
	fmt.Fprintf(w, "  Warnings:     %d\n", warned)
	fmt.Fprintf(w, "  Failed:       %d\n", failed)

	if failed > 0 {
		fmt.Fprintln(w, "\n⚠ Some critical checks failed. Fix the issues above before using pixnix.")
		return fmt.Errorf("%d checks failed", failed)
	}
	if warned > 0 {
		fmt.Fprintln(w, "\n⚠ Some checks have warnings. pixnix will work but some features may be limited.")
	} else {
		fmt.Fprintln(w, "\n✓ All checks passed! pixnix is ready to use.")
	}
	return nil
}
