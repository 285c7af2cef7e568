package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadSampleConfig(t *testing.T) {
	path := "../../assets/sample-config/config.example.yml"
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Version != 1 {
		t.Fatalf("expected version 1, got %d", c.Version)
	}
	if c.General.DataRoot == "" || c.General.DownloadRoot == "" {
		t.Fatalf("expected non-empty general paths")
	}
	require.Equal(t, 30, c.API.PerPage)
	require.Equal(t, 500, c.Gallery.DebounceMS)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: "+dir+"\n  download_root: "+dir+"/dl\n")
	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, c.API.BaseURL)
	require.Equal(t, DefaultPattern, c.Download.FilenamePattern)
	require.Equal(t, DefaultCategories, c.Gallery.Categories)
	require.Equal(t, "pixnix", c.General.AppName)
	require.Equal(t, 2000, c.Download.DoneResetMS)
	require.Equal(t, 1500, c.Download.FallbackDelayMS)
}

func TestLoadExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PIXNIX_TEST_ROOT", dir)
	p := writeConfig(t, "version: 1\ngeneral:\n  data_root: ${PIXNIX_TEST_ROOT}/data\n  download_root: ${PIXNIX_TEST_ROOT}/dl\n")
	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, dir+"/data", c.General.DataRoot)
	require.Equal(t, filepath.Join(dir+"/data", "pixnix.log"), c.LogPath())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"version":  "version: 2\n",
		"per_page": "version: 1\napi:\n  per_page: 50\n",
		"base_url": "version: 1\napi:\n  base_url: not-a-url\n",
		"pattern":  "version: 1\ndownload:\n  filename_pattern: wallpaper.jpg\n",
		"level":    "version: 1\nlogging:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	require.Equal(t, 1, c.Version)
	require.NotContains(t, c.General.DataRoot, "~")
}

func TestAccessKeyPrecedence(t *testing.T) {
	c := Default()
	c.API.AccessKeyEnv = "PIXNIX_TEST_KEY"
	t.Setenv("PIXNIX_TEST_KEY", " from-env ")
	require.Equal(t, "from-env", c.AccessKey())
	c.API.AccessKey = "inline"
	require.Equal(t, "inline", c.AccessKey())
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	t.Setenv("PIXNIX_CONFIG", "/tmp/custom.yml")
	require.Equal(t, "/tmp/custom.yml", DefaultPath())
}

func TestValidateDetailed(t *testing.T) {
	c := Default()
	c.API.AccessKeyEnv = "PIXNIX_TEST_UNSET_KEY"
	c.Gallery.Categories = []string{"nature", "Nature", ""}
	c.Gallery.DefaultCategory = "space"
	c.Metrics.PrometheusTextfile.Enabled = true

	fields := map[string]int{}
	for _, e := range c.ValidateDetailed() {
		fields[e.Field]++
	}
	require.Equal(t, 1, fields["api.access_key"])
	require.Equal(t, 2, fields["gallery.categories"])
	require.Equal(t, 1, fields["gallery.default_category"])
	require.Equal(t, 1, fields["metrics.prometheus_textfile.path"])

	err := c.ValidateWithFriendlyErrors()
	require.Error(t, err)
	require.Contains(t, err.Error(), "How to fix:")
}
