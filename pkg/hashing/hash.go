// Package hashing implements the streaming content-fingerprint engine used
// by the scanner pipeline.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// copyBufferSize is the size of the buffer used to stream file contents
	// into the digester. Files are never read into memory in full.
	copyBufferSize = 8 * 1024

	// progressGranularity is the minimum number of bytes between progress
	// callback invocations, and the minimum total file size for which
	// progress is reported at all.
	progressGranularity = 100 * 1024 * 1024
)

// IOError wraps a file-read failure encountered while hashing. Callers that
// need to distinguish hashing failures from unreadable-path failures can
// check for this type with errors.As.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "unable to read " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ProgressFunc is invoked with cumulative bytes hashed and the file's total
// size. It is only invoked for files larger than progressGranularity, and at
// most once per progressGranularity bytes copied.
type ProgressFunc func(bytesDone, totalBytes int64)

// progressWriter is an io.Writer that reports progress at a fixed byte
// granularity, wrapping the hasher the same way the teacher's hashed writer
// attaches a digest to an underlying stream.
type progressWriter struct {
	total       int64
	written     int64
	lastReport  int64
	report      ProgressFunc
}

func (w *progressWriter) Write(data []byte) (int, error) {
	n := len(data)
	w.written += int64(n)
	if w.report != nil && w.total > progressGranularity && w.written-w.lastReport >= progressGranularity {
		w.report(w.written, w.total)
		w.lastReport = w.written
	}
	return n, nil
}

// Hash streams path through SHA-256 in fixed-size reads and returns the
// lowercase hex digest. progress may be nil.
func Hash(path string, progress ProgressFunc) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", &IOError{Path: path, Err: err}
	}

	hasher := sha256.New()
	tracker := &progressWriter{total: info.Size(), report: progress}
	buffer := make([]byte, copyBufferSize)

	multi := io.MultiWriter(hasher, tracker)
	if _, err := io.CopyBuffer(multi, file, buffer); err != nil {
		return "", &IOError{Path: path, Err: err}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyHash recomputes path's digest and compares it case-insensitively to
// expected.
func VerifyHash(path, expected string) (bool, error) {
	actual, err := Hash(path, nil)
	if err != nil {
		return false, errors.Wrap(err, "unable to verify hash")
	}
	return strings.EqualFold(actual, expected), nil
}
