// Package archivumerrors realizes the error taxonomy shared by the scanner
// and server: transient per-file failures that a caller should record and
// continue past, versus failures that should abort an operation.
package archivumerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors checked with errors.Is at call sites that need to branch
// on error kind rather than on error text.
var (
	// ErrConfiguration indicates a fatal startup configuration problem
	// (missing root path, unparsable config file).
	ErrConfiguration = errors.New("configuration error")

	// ErrIngestConflict indicates that an ingest request's payload
	// disagrees with existing server-side state for the same identity
	// (same (sourceId, path) with incompatible attributes, or a source id
	// with divergent metadata). Callers should surface this as HTTP 409.
	ErrIngestConflict = errors.New("ingest conflict")

	// ErrIntegrity indicates a post-copy hash verification failure. It is
	// always reported to the caller, never silently dropped.
	ErrIntegrity = errors.New("integrity error")

	// ErrNotFound indicates that a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// TransientIOError wraps a per-file I/O failure encountered during a scan
// (unreadable file, permission denied). The scanner orchestrator records
// these in the scan summary and continues; they never abort a scan.
type TransientIOError struct {
	Path string
	Err  error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("transient I/O error at %s: %v", e.Path, e.Err)
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}

// MetadataError wraps a failure in an optional per-file side-extraction
// (EXIF parsing, corrupted image). It is never propagated as a scan
// failure; the caller logs it and the file is still cataloged with a nil
// side-record.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata extraction failed at %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// DetectorError wraps a single detector's failure to parse a project's
// marker files (malformed pom.xml, a git repository with no network
// access). The project detector chain treats this the same as a detector
// declining to match: it moves on to the next candidate.
type DetectorError struct {
	Detector string
	Err      error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("detector %s failed: %v", e.Detector, e.Err)
}

func (e *DetectorError) Unwrap() error {
	return e.Err
}

// ShellOutTimeoutError wraps a shell-out that exceeded its hard timeout
// (physical-id probe commands, git probes). The caller treats the
// corresponding field as null rather than failing the operation.
type ShellOutTimeoutError struct {
	Command string
	Err     error
}

func (e *ShellOutTimeoutError) Error() string {
	return fmt.Sprintf("shell-out %q timed out: %v", e.Command, e.Err)
}

func (e *ShellOutTimeoutError) Unwrap() error {
	return e.Err
}

// Wrap adds context to err using the same github.com/pkg/errors convention
// used throughout the rest of the module.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf adds formatted context to err.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
