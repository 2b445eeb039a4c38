package physicalid

import (
	"strings"

	"github.com/archivum/archivum/pkg/shellout"
)

// populatePlatformIdentifiers fills disk/partition UUID and serial number
// via wmic. Any probe failure leaves its field nil.
func populatePlatformIdentifiers(bundle *Bundle, path string) {
	drive := path
	if len(path) >= 2 && path[1] == ':' {
		drive = path[:2]
	}

	output, err := shellout.Run("", "wmic", "logicaldisk", "where", "DeviceID='"+drive+"'", "get", "VolumeSerialNumber")
	if err != nil {
		return
	}

	lines := strings.Fields(output)
	if len(lines) >= 2 {
		bundle.SerialNumber = stringPtr(lines[len(lines)-1])
	}
}
