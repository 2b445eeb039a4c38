package physicalid

import (
	"strings"

	"github.com/archivum/archivum/pkg/shellout"
)

// populatePlatformIdentifiers fills disk/partition UUID and serial number
// via df, blkid, and udevadm. Any probe failure leaves its field nil.
func populatePlatformIdentifiers(bundle *Bundle, path string) {
	device, err := shellout.Run("", "df", "--output=source", path)
	if err != nil {
		return
	}
	lines := strings.Split(device, "\n")
	if len(lines) < 2 {
		return
	}
	devicePath := strings.TrimSpace(lines[len(lines)-1])
	if devicePath == "" {
		return
	}

	if uuid, err := shellout.Run("", "blkid", "-s", "UUID", "-o", "value", devicePath); err == nil && uuid != "" {
		bundle.PartitionUUID = stringPtr(uuid)
	}

	if serial, err := shellout.Run("", "udevadm", "info", "--query=property", "--name="+devicePath); err == nil {
		for _, line := range strings.Split(serial, "\n") {
			if strings.HasPrefix(line, "ID_SERIAL=") {
				bundle.SerialNumber = stringPtr(strings.TrimPrefix(line, "ID_SERIAL="))
				break
			}
		}
	}
}
