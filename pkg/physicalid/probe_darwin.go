package physicalid

import (
	"strings"

	"github.com/archivum/archivum/pkg/shellout"
)

// populatePlatformIdentifiers fills disk/partition UUID and serial number
// via diskutil and system_profiler. Any probe failure leaves its field nil.
func populatePlatformIdentifiers(bundle *Bundle, path string) {
	info, err := shellout.Run("", "diskutil", "info", path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Volume UUID:"):
			bundle.PartitionUUID = stringPtr(strings.TrimSpace(strings.TrimPrefix(line, "Volume UUID:")))
		case strings.HasPrefix(line, "Disk / Partition UUID:"):
			bundle.DiskUUID = stringPtr(strings.TrimSpace(strings.TrimPrefix(line, "Disk / Partition UUID:")))
		}
	}

	if profile, err := shellout.Run("", "system_profiler", "SPStorageDataType"); err == nil {
		for _, line := range strings.Split(profile, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Serial Number:") {
				bundle.SerialNumber = stringPtr(strings.TrimSpace(strings.TrimPrefix(line, "Serial Number:")))
				break
			}
		}
	}
}
