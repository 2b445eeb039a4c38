package scanner

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/encoding"
)

// batchWriter accumulates FileDto records in memory and flushes them as
// numbered batch-NNNN.json files once batchSize is reached.
type batchWriter struct {
	outputDir  string
	sourceID   string
	batchSize  int
	current    []models.FileDto
	batchCount int
}

func newBatchWriter(outputDir, sourceID string, batchSize int) *batchWriter {
	if batchSize < 1 {
		batchSize = 500
	}
	return &batchWriter{outputDir: outputDir, sourceID: sourceID, batchSize: batchSize}
}

// append adds file to the current batch, flushing it first if full.
func (w *batchWriter) append(file models.FileDto) error {
	w.current = append(w.current, file)
	if len(w.current) >= w.batchSize {
		return w.flush()
	}
	return nil
}

// flushFinal flushes any remaining partial batch.
func (w *batchWriter) flushFinal() error {
	if len(w.current) == 0 {
		return nil
	}
	return w.flush()
}

func (w *batchWriter) flush() error {
	w.batchCount++
	batch := models.FileBatchDto{
		SourceID:    w.sourceID,
		BatchNumber: w.batchCount,
		Files:       w.current,
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("batch-%04d.json", w.batchCount))
	if err := writeJSON(path, batch); err != nil {
		return err
	}

	w.current = nil
	return nil
}

// writeJSON marshals v as indented JSON and atomically writes it to path.
func writeJSON(path string, v interface{}) error {
	return encoding.MarshalAndSave(path, func() ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	})
}
