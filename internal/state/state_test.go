package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jxwalker/pixnix/internal/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{Version: 1, General: config.General{DataRoot: t.TempDir(), DownloadRoot: t.TempDir()}}
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.GetSetting("theme")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.SetSetting("theme", "dark"))
	require.NoError(t, db.SetSetting("theme", "light"))
	v, ok, err := db.Get("theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "light", v)
}

func TestDownloadsHistory(t *testing.T) {
	db := openTestDB(t)

	row := DownloadRow{PhotoID: "a1", URL: "https://images.example/a1", Dest: "/tmp/pixnix-a1-10x20.jpg", Author: "Ann", Width: 10, Height: 20, Status: StatusDownloading}
	require.NoError(t, db.UpsertDownload(row))
	row.Status = StatusComplete
	row.SHA256 = "abc"
	row.Size = 42
	require.NoError(t, db.UpsertDownload(row))
	require.NoError(t, db.UpsertDownload(DownloadRow{PhotoID: "b2", URL: "u", Dest: "/tmp/b2.jpg", Status: StatusError, LastError: "boom"}))

	rows, err := db.ListDownloads(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]DownloadRow{}
	for _, r := range rows {
		byID[r.PhotoID] = r
	}
	require.Equal(t, StatusComplete, byID["a1"].Status)
	require.Equal(t, int64(42), byID["a1"].Size)
	require.Equal(t, "abc", byID["a1"].SHA256)
	require.Equal(t, "boom", byID["b2"].LastError)

	limited, err := db.ListDownloads(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	require.NoError(t, db.DeleteDownload("a1", row.Dest))
	rows, err = db.ListDownloads(0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOpenMemory(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Set("k", "v"))
	v, ok, err := db.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestOpenRequiresDataRoot(t *testing.T) {
	_, err := Open(&config.Config{})
	require.Error(t, err)
	_, err = Open(nil)
	require.Error(t, err)
}
