package metadata

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Stat reads path's modification and access timestamps, plus a
// best-effort creation timestamp. Linux has no reliable birth-time field
// exposed via stat(2) on most filesystems, so createdAt falls back to the
// inode's ctime (metadata-change time), the closest available proxy.
func Stat(path string) (created, modified, accessed time.Time, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return time.Time{}, time.Time{}, time.Time{}, statErr
	}

	modified = info.ModTime()

	sys, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return modified, modified, modified, nil
	}

	accessed = time.Unix(sys.Atim.Sec, sys.Atim.Nsec)
	created = time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)

	return created, modified, accessed, nil
}
