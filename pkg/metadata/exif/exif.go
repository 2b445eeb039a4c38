// Package exif defines the pluggable image side-record extractor. Real EXIF
// parsing is out of scope for this module; Extract stands in as the fixed
// interface a concrete parser would implement.
package exif

// Record is a fixed, minimal EXIF side-record. A real extractor would
// populate it from image metadata (camera model, GPS coordinates, capture
// timestamp); this stub never does, since EXIF parsing is an external
// collaborator here.
type Record struct {
	CameraModel string
	TakenAt     string
	Latitude    *float64
	Longitude   *float64
}

// Extract attempts to read an EXIF side-record from path. The stub
// implementation always returns (nil, nil): absence is never an error, and
// a concrete extractor is expected to be substituted at the call site when
// EXIF support is needed.
func Extract(path string) (*Record, error) {
	return nil, nil
}
