package system

import (
	"fmt"
	"syscall"
)

// Usage is a filesystem capacity snapshot in bytes.
type Usage struct {
	Total     uint64
	Free      uint64
	Available uint64 // free space usable by unprivileged processes
}

func (u Usage) Used() uint64 { return u.Total - u.Free }

// UsedPercent is in the range 0-100.
func (u Usage) UsedPercent() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Used()) / float64(u.Total) * 100
}

func DiskUsage(path string) (Usage, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bs := uint64(st.Bsize)
	return Usage{Total: st.Blocks * bs, Free: st.Bfree * bs, Available: st.Bavail * bs}, nil
}

func CheckAvailableSpace(path string) (uint64, error) {
	u, err := DiskUsage(path)
	return u.Available, err
}

// HasSufficientSpace reports whether path has room for need plus 10% headroom.
func HasSufficientSpace(path string, need uint64) (bool, uint64, error) {
	avail, err := CheckAvailableSpace(path)
	if err != nil {
		return false, 0, err
	}
	return avail >= need+need/10, avail, nil
}
