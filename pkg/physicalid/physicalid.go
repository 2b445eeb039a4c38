// Package physicalid captures the physical-identifier bundle embedded in
// each Source: mount point, filesystem, capacity, used space, volume label,
// and (where available) disk/partition identifiers from OS-specific shell
// probes. Every probe is non-fatal; fields that cannot be determined are
// left null.
package physicalid

// Bundle is the physical-id attribute set embedded in a Source.
type Bundle struct {
	MountPoint    string
	Filesystem    string
	CapacityBytes int64
	UsedBytes     int64
	VolumeLabel   string
	DiskUUID      *string
	PartitionUUID *string
	SerialNumber  *string
	PhysicalLabel *string
	Notes         *string
}

// Probe captures the physical-id bundle for the filesystem containing path.
// Capacity/used-space/filesystem-type come from the platform's statfs-family
// call; disk/partition UUID and serial number come from an OS-specific shell
// probe and are left nil on any failure or timeout, never aborting the
// probe as a whole.
func Probe(path string) (*Bundle, error) {
	bundle, err := statBundle(path)
	if err != nil {
		return nil, err
	}

	populatePlatformIdentifiers(bundle, path)

	return bundle, nil
}

func stringPtr(s string) *string {
	return &s
}
