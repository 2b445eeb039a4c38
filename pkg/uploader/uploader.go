// Package uploader replays a completed scanner output tree to the server
// (C7). It is the HTTP client side of the pipeline, generalized from the
// same call-then-decode shape the teacher's cloud-tunnel client used for
// its REST calls: encode a JSON body, issue the request with a deadline,
// and treat any non-2xx as a hard failure.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/logging"
)

// DefaultTimeout is the per-request timeout applied when Options.Timeout is
// zero.
const DefaultTimeout = 60 * time.Second

// Options controls a single upload run.
type Options struct {
	OutputDirectory string
	ServerURL       string
	Timeout         time.Duration
}

// Result summarizes a completed upload for the caller.
type Result struct {
	ServerSourceID string
	BatchesSent    int
	ProjectsSent   int
}

// unexpectedStatusError is returned when the server responds with a
// non-2xx status code.
type unexpectedStatusError struct {
	method string
	url    string
	status int
	body   string
}

func (e *unexpectedStatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.method, e.url, e.status, e.body)
}

// Run replays the output tree in Options.OutputDirectory, which is a single
// <sourceId> directory written by the scanner: create source, upload batches in ascending
// numeric order, upload code-projects.json if present and non-empty, then
// mark the scan complete. Any non-2xx response aborts the upload
// immediately, leaving partial server-side state as-is.
func Run(opts Options, logger *logging.Logger) (*Result, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: timeout}

	localSource, err := loadSource(opts.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("unable to load source.json: %w", err)
	}
	localSourceID := localSource.ID

	serverSourceID, err := createSource(client, opts.ServerURL, localSource)
	if err != nil {
		return nil, fmt.Errorf("unable to create source: %w", err)
	}
	logger.Printf("created source %s (local id %s)", serverSourceID, localSourceID)

	batchPaths, err := sortedBatchPaths(filepath.Join(opts.OutputDirectory, "files"))
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate batches: %w", err)
	}

	for _, batchPath := range batchPaths {
		var batch models.FileBatchDto
		if err := loadJSON(batchPath, &batch); err != nil {
			return nil, fmt.Errorf("unable to load %s: %w", batchPath, err)
		}
		batch.SourceID = serverSourceID
		for i := range batch.Files {
			batch.Files[i].SourceID = serverSourceID
		}

		if err := uploadBatch(client, opts.ServerURL, batch); err != nil {
			return nil, fmt.Errorf("unable to upload %s: %w", batchPath, err)
		}
		logger.Printf("uploaded %s (%d files)", filepath.Base(batchPath), len(batch.Files))
	}

	projectsSent := 0
	projectsPath := filepath.Join(opts.OutputDirectory, "code-projects.json")
	if projects, err := loadCodeProjects(projectsPath); err == nil && len(projects) > 0 {
		for i := range projects {
			projects[i].SourceID = serverSourceID
		}
		if err := uploadCodeProjects(client, opts.ServerURL, projects); err != nil {
			return nil, fmt.Errorf("unable to upload code projects: %w", err)
		}
		projectsSent = len(projects)
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("unable to load code-projects.json: %w", err)
	}

	if err := completeScan(client, opts.ServerURL, serverSourceID, localSource.TotalFiles, localSource.TotalSize); err != nil {
		return nil, fmt.Errorf("unable to complete scan: %w", err)
	}

	return &Result{
		ServerSourceID: serverSourceID,
		BatchesSent:    len(batchPaths),
		ProjectsSent:   projectsSent,
	}, nil
}

func loadSource(outputDir string) (*models.SourceDto, error) {
	var source models.SourceDto
	if err := loadJSON(filepath.Join(outputDir, "source.json"), &source); err != nil {
		return nil, err
	}
	return &source, nil
}

func loadCodeProjects(path string) ([]models.CodeProjectDto, error) {
	var projects []models.CodeProjectDto
	if err := loadJSON(path, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func sortedBatchPaths(filesDir string) ([]string, error) {
	entries, err := os.ReadDir(filesDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, filepath.Join(filesDir, entry.Name()))
		}
	}
	sort.Strings(paths)

	return paths, nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func createSource(client *http.Client, serverURL string, source *models.SourceDto) (string, error) {
	var created models.SourceDto
	if err := callAPI(client, http.MethodPost, serverURL+"/api/sources", source, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func uploadBatch(client *http.Client, serverURL string, batch models.FileBatchDto) error {
	return callAPI(client, http.MethodPost, serverURL+"/api/files/batch", batch, nil)
}

func uploadCodeProjects(client *http.Client, serverURL string, projects []models.CodeProjectDto) error {
	return callAPI(client, http.MethodPost, serverURL+"/api/code-projects/bulk", projects, nil)
}

func completeScan(client *http.Client, serverURL, sourceID string, totalFiles, totalSize int64) error {
	request := models.CompleteScanRequest{
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
		Success:    true,
	}
	url := fmt.Sprintf("%s/api/sources/%s/complete", serverURL, sourceID)
	return callAPI(client, http.MethodPost, url, request, nil)
}

// callAPI JSON-encodes body (if non-nil), issues the request with the
// client's configured timeout as the context deadline, and JSON-decodes the
// response into result (if non-nil) when the status is 2xx.
func callAPI(client *http.Client, method, url string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(context.Background(), client.Timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("unable to construct request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("unable to perform request: %w", err)
	}
	defer response.Body.Close()

	responseBody, _ := io.ReadAll(response.Body)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &unexpectedStatusError{method: method, url: url, status: response.StatusCode, body: string(responseBody)}
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("unable to decode response: %w", err)
		}
	}

	return nil
}
