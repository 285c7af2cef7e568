package downloader

import (
	"errors"
	"io"
	"os"
	"syscall"
)

func partPath(dest string) string { return dest + ".part" }

// renameOrCopy attempts to rename, falling back to copy when cross-device.
func renameOrCopy(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && linkErr.Err == syscall.EXDEV {
		if err2 := copyFile(src, dst); err2 != nil {
			return err2
		}
		_ = os.Remove(src)
		return nil
	}
	return err
}

func copyFile(src, dst string) error {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sf.Close() }()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = df.Close() }()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
