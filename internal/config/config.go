package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. Keys left out of the file keep the values from Default().
type Config struct {
	Version  int       `yaml:"version"`
	General  General   `yaml:"general"`
	API      API       `yaml:"api"`
	Gallery  Gallery   `yaml:"gallery"`
	Download Download  `yaml:"download"`
	Cache    Cache     `yaml:"cache"`
	Logging  Logging   `yaml:"logging"`
	Metrics  Metrics   `yaml:"metrics"`
	UI       UIOptions `yaml:"ui"`
}

type General struct {
	DataRoot     string `yaml:"data_root"`
	DownloadRoot string `yaml:"download_root"`
	// AppName is used as the utm_source referral tag on outbound links.
	AppName string `yaml:"app_name"`
}

type API struct {
	BaseURL        string `yaml:"base_url"`
	AccessKeyEnv   string `yaml:"access_key_env"`
	AccessKey      string `yaml:"access_key"`
	PerPage        int    `yaml:"per_page"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Gallery struct {
	DefaultCategory     string   `yaml:"default_category"`
	Categories          []string `yaml:"categories"`
	DebounceMS          int      `yaml:"debounce_ms"`
	ScrollThresholdRows int      `yaml:"scroll_threshold_rows"`
	LazyMarginRows      int      `yaml:"lazy_margin_rows"`
}

type Download struct {
	FilenamePattern string `yaml:"filename_pattern"` // tokens: {id} {width} {height}
	DoneResetMS     int    `yaml:"done_reset_ms"`
	FallbackDelayMS int    `yaml:"fallback_delay_ms"`
	Concurrency     int    `yaml:"concurrency"`
}

type Cache struct {
	// TTLMinutes enables the API response cache when > 0.
	TTLMinutes int `yaml:"ttl_minutes"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // human|json
	File   string `yaml:"file"`   // TUI log destination; defaults to <data_root>/pixnix.log
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type UIOptions struct {
	Mouse    bool `yaml:"mouse"`
	Previews bool `yaml:"previews"`
}

const (
	DefaultBaseURL      = "https://api.unsplash.com"
	DefaultAccessKeyEnv = "UNSPLASH_ACCESS_KEY"
	DefaultPerPage      = 30
	DefaultCategory     = "nature"
	DefaultPattern      = "pixnix-{id}-{width}x{height}.jpg"
)

// DefaultCategories is the category bar shown when the config does not list any.
var DefaultCategories = []string{"nature", "abstract", "city", "space", "ocean", "mountain", "minimal", "animals", "latest"}

// Default returns a complete configuration suitable for first runs.
func Default() *Config {
	return &Config{
		Version: 1,
		General: General{
			DataRoot:     "~/.local/share/pixnix",
			DownloadRoot: "~/Pictures/pixnix",
			AppName:      "pixnix",
		},
		API: API{
			BaseURL:        DefaultBaseURL,
			AccessKeyEnv:   DefaultAccessKeyEnv,
			PerPage:        DefaultPerPage,
			TimeoutSeconds: 30,
		},
		Gallery: Gallery{
			DefaultCategory:     DefaultCategory,
			Categories:          append([]string(nil), DefaultCategories...),
			DebounceMS:          500,
			ScrollThresholdRows: 10,
			LazyMarginRows:      2,
		},
		Download: Download{
			FilenamePattern: DefaultPattern,
			DoneResetMS:     2000,
			FallbackDelayMS: 1500,
			Concurrency:     4,
		},
		Logging: Logging{Level: "info", Format: "human"},
		UI:      UIOptions{Mouse: true, Previews: true},
	}
}

// DefaultPath resolves the config location from PIXNIX_CONFIG or ~/.config/pixnix/config.yml.
func DefaultPath() string {
	if env := strings.TrimSpace(os.Getenv("PIXNIX_CONFIG")); env != "" {
		return env
	}
	h, err := os.UserHomeDir()
	if err != nil || h == "" {
		return "config.yml"
	}
	return filepath.Join(h, ".config", "pixnix", "config.yml")
}

// Load reads, parses, expands, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(c)
}

// LoadOrDefault behaves like Load but falls back to Default() when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default())
	}
	return nil, err
}

func finish(c *Config) (*Config, error) {
	c.applyDefaults()
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyDefaults fills values that an explicit empty key in YAML would otherwise zero out.
func (c *Config) applyDefaults() {
	d := Default()
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if strings.TrimSpace(c.API.AccessKeyEnv) == "" {
		c.API.AccessKeyEnv = d.API.AccessKeyEnv
	}
	if c.API.PerPage == 0 {
		c.API.PerPage = d.API.PerPage
	}
	if strings.TrimSpace(c.General.AppName) == "" {
		c.General.AppName = d.General.AppName
	}
	if strings.TrimSpace(c.Gallery.DefaultCategory) == "" {
		c.Gallery.DefaultCategory = d.Gallery.DefaultCategory
	}
	if len(c.Gallery.Categories) == 0 {
		c.Gallery.Categories = d.Gallery.Categories
	}
	if strings.TrimSpace(c.Download.FilenamePattern) == "" {
		c.Download.FilenamePattern = d.Download.FilenamePattern
	}
	if c.Download.Concurrency == 0 {
		c.Download.Concurrency = d.Download.Concurrency
	}
}

func (c *Config) expandPaths() error {
	var err error
	if c.General.DataRoot, err = expandTilde(c.General.DataRoot); err != nil {
		return err
	}
	if c.General.DownloadRoot, err = expandTilde(c.General.DownloadRoot); err != nil {
		return err
	}
	if c.Logging.File, err = expandTilde(c.Logging.File); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.General.DataRoot == "" {
		return errors.New("general.data_root is required")
	}
	if c.General.DownloadRoot == "" {
		return errors.New("general.download_root is required")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url invalid: %q", c.API.BaseURL)
	}
	if c.API.PerPage < 1 || c.API.PerPage > 30 {
		return fmt.Errorf("api.per_page must be between 1 and 30")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0")
	}
	if c.Gallery.DebounceMS < 0 {
		return fmt.Errorf("gallery.debounce_ms must be >= 0")
	}
	if c.Gallery.ScrollThresholdRows < 0 || c.Gallery.LazyMarginRows < 0 {
		return fmt.Errorf("gallery scroll/lazy margins must be >= 0")
	}
	if !strings.Contains(c.Download.FilenamePattern, "{id}") {
		return fmt.Errorf("download.filename_pattern must contain {id}")
	}
	if c.Download.Concurrency < 0 {
		return fmt.Errorf("download.concurrency must be >= 0")
	}
	if c.Cache.TTLMinutes < 0 {
		return fmt.Errorf("cache.ttl_minutes must be >= 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
		// ok
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	return nil
}

// AccessKey returns the Unsplash access key, preferring the inline value over the environment.
func (c *Config) AccessKey() string {
	if k := strings.TrimSpace(c.API.AccessKey); k != "" {
		return k
	}
	env := strings.TrimSpace(c.API.AccessKeyEnv)
	if env == "" {
		env = DefaultAccessKeyEnv
	}
	return strings.TrimSpace(os.Getenv(env))
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.General.DataRoot, "pixnix.log")
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}

// EnsureDir creates path (and parents) when it is non-empty.
func EnsureDir(path string, perm fs.FileMode) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, perm)
}
