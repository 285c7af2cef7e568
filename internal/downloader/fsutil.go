package downloader

import (
	"os"
)

// fsyncDir flushes directory metadata so a completed rename survives a crash.
func fsyncDir(dir string) error {
	df, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = df.Close() }()
	return df.Sync()
}
