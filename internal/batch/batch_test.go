package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "jobs.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := write(t, `version: 1
jobs:
  - id: " abc "
    sha256: ABCDEF
  - id: def
    dir: /tmp/phone
`)
	f, err := Load(p)
	require.NoError(t, err)
	require.Len(t, f.Jobs, 2)
	require.Equal(t, "abc", f.Jobs[0].ID)
	require.Equal(t, "abcdef", f.Jobs[0].SHA256)
	require.Equal(t, "/tmp/phone", f.Jobs[1].Dir)
}

func TestLoadRejects(t *testing.T) {
	for name, body := range map[string]string{
		"version": "version: 2\njobs:\n  - id: a\n",
		"empty":   "version: 1\njobs: []\n",
		"no id":   "version: 1\njobs:\n  - dir: /x\n",
		"yaml":    "version: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, body))
			require.Error(t, err)
		})
	}
}

func TestMergeKeepsFirst(t *testing.T) {
	got := Merge([]Job{{ID: "a"}, {ID: "b", Dir: "x"}}, Job{ID: "b"}, Job{ID: "c"})
	require.Equal(t, []Job{{ID: "a"}, {ID: "b", Dir: "x"}, {ID: "c"}}, got)
}
