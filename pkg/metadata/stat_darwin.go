package metadata

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Stat reads path's modification, access, and (true, on APFS/HFS+) creation
// timestamps via the BSD stat(2) birthtime field.
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

	accessed = time.Unix(sys.Atimespec.Sec, sys.Atimespec.Nsec)
	created = time.Unix(sys.Birthtimespec.Sec, sys.Birthtimespec.Nsec)

	return created, modified, accessed, nil
}
