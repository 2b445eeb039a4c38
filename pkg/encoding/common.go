// Package encoding provides small helpers for loading and atomically saving
// structured configuration and output-tree files.
package encoding

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadAndUnmarshal reads the file at path and invokes unmarshal (usually a
// closure wrapping a format-specific decoder) on its contents.
func LoadAndUnmarshal(path string, unmarshal func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("unable to load file: %w", err)
	}

	if err := unmarshal(data); err != nil {
		return fmt.Errorf("unable to unmarshal data: %w", err)
	}

	return nil
}

// MarshalAndSave invokes marshal and writes the result atomically (via a
// temporary file in the same directory followed by a rename) to path.
func MarshalAndSave(path string, marshal func() ([]byte, error)) error {
	data, err := marshal()
	if err != nil {
		return fmt.Errorf("unable to marshal message: %w", err)
	}

	if err := WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("unable to write message data: %w", err)
	}

	return nil
}

// WriteFileAtomic writes data to path by first writing to a temporary file in
// the same directory and then renaming it into place, so that readers never
// observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, ".tmp-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	temporaryPath := temporary.Name()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("unable to write temporary file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("unable to close temporary file: %w", err)
	}
	if err := os.Chmod(temporaryPath, mode); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("unable to set file permissions: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("unable to rename temporary file into place: %w", err)
	}

	return nil
}
