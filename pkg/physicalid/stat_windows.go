package physicalid

import (
	"golang.org/x/sys/windows"
)

// statBundle populates capacity, used space, and filesystem type via
// GetDiskFreeSpaceEx and GetVolumeInformation.
func statBundle(path string) (*Bundle, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return nil, err
	}

	var volumeName [windows.MAX_PATH + 1]uint16
	var filesystemName [windows.MAX_PATH + 1]uint16
	_ = windows.GetVolumeInformation(
		pathPtr,
		&volumeName[0], uint32(len(volumeName)),
		nil, nil, nil,
		&filesystemName[0], uint32(len(filesystemName)),
	)

	return &Bundle{
		MountPoint:    path,
		Filesystem:    windows.UTF16ToString(filesystemName[:]),
		CapacityBytes: int64(totalBytes),
		UsedBytes:     int64(totalBytes - totalFreeBytes),
		VolumeLabel:   windows.UTF16ToString(volumeName[:]),
	}, nil
}
