package physicalid

import (
	"golang.org/x/sys/unix"
)

// linuxFilesystemTypes maps a handful of common statfs magic numbers to
// human-readable filesystem names. Unrecognized magic numbers fall back to
// a hex representation.
var linuxFilesystemTypes = map[int64]string{
	0xEF53:     "ext4",
	0x6969:     "nfs",
	0x58465342: "xfs",
	0x9123683E: "btrfs",
	0x4D44:     "msdos",
	0x65735546: "fuse",
	0x01021994: "tmpfs",
}

// statBundle populates capacity, used space, and filesystem type via statfs.
func statBundle(path string) (*Bundle, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, err
	}

	blockSize := stat.Bsize
	capacity := int64(stat.Blocks) * blockSize
	free := int64(stat.Bfree) * blockSize

	fsType := linuxFilesystemTypes[int64(stat.Type)]
	if fsType == "" {
		fsType = "unknown"
	}

	return &Bundle{
		MountPoint:    path,
		Filesystem:    fsType,
		CapacityBytes: capacity,
		UsedBytes:     capacity - free,
	}, nil
}
