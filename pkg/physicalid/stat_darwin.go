package physicalid

import (
	"golang.org/x/sys/unix"
)

// statBundle populates capacity, used space, and filesystem type via statfs.
func statBundle(path string) (*Bundle, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, err
	}

	blockSize := int64(stat.Bsize)
	capacity := int64(stat.Blocks) * blockSize
	free := int64(stat.Bfree) * blockSize

	return &Bundle{
		MountPoint:    path,
		Filesystem:    cStringToString(stat.Fstypename[:]),
		CapacityBytes: capacity,
		UsedBytes:     capacity - free,
	}, nil
}

// cStringToString converts a NUL-terminated int8 byte array (as produced by
// Statfs_t's Fstypename field) into a Go string.
func cStringToString(raw []int8) string {
	bytes := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == 0 {
			break
		}
		bytes = append(bytes, byte(b))
	}
	return string(bytes)
}
