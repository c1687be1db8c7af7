// internal/source/local_fetcher.go - Local file fetching implementation
package source

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldops/geonav/internal"
	"github.com/fieldops/geonav/internal/config"
)

// LocalFetcher implements the Fetcher interface for local file system access
type LocalFetcher struct {
	config *config.LocalConfig
}

// NewLocalFetcher creates a new local file fetcher
func NewLocalFetcher(cfg *config.Config) *LocalFetcher {
	return &LocalFetcher{
		config: &cfg.Local,
	}
}

// Fetch retrieves a shapefile payload from the local file system
func (f *LocalFetcher) Fetch(request *PayloadRequest) (*PayloadResponse, error) {
	start := time.Now()

	filePath, err := f.buildFilePath(request)
	if err != nil {
		return &PayloadResponse{
			Request: request,
			Error:   internal.NewError(internal.ErrorCodeValidation, "failed to build file path", err),
		}, err
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			notFoundErr := internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("shapefile not found: %s", filePath), err)
			return &PayloadResponse{
				Request:   request,
				FetchTime: time.Since(start),
				Error:     notFoundErr,
			}, notFoundErr
		}
		accessErr := internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("cannot access shapefile: %s", filePath), err)
		return &PayloadResponse{
			Request:   request,
			FetchTime: time.Since(start),
			Error:     accessErr,
		}, accessErr
	}

	if !fileInfo.Mode().IsRegular() {
		typeErr := internal.NewError(internal.ErrorCodeValidation, fmt.Sprintf("path is not a regular file: %s", filePath), nil)
		return &PayloadResponse{
			Request:   request,
			FetchTime: time.Since(start),
			Error:     typeErr,
		}, typeErr
	}

	file, err := os.Open(filePath)
	if err != nil {
		openErr := internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to open shapefile: %s", filePath), err)
		return &PayloadResponse{
			Request:   request,
			FetchTime: time.Since(start),
			Error:     openErr,
		}, openErr
	}
	defer file.Close()

	// Handle compressed files
	var reader io.Reader = file
	isCompressed := f.isCompressedFile(filePath)
	if isCompressed {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			compressErr := internal.NewError(internal.ErrorCodeProcessing, fmt.Sprintf("failed to create gzip reader for: %s", filePath), err)
			return &PayloadResponse{
				Request:   request,
				FetchTime: time.Since(start),
				Error:     compressErr,
			}, compressErr
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		readErr := internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("failed to read shapefile: %s", filePath), err)
		return &PayloadResponse{
			Request:   request,
			FetchTime: time.Since(start),
			Error:     readErr,
		}, readErr
	}

	response := &PayloadResponse{
		Request:    request,
		Data:       data,
		StatusCode: 200, // Simulate HTTP 200 OK for consistency
		Size:       len(data),
		FetchTime:  time.Since(start),
	}

	// Add pseudo-headers for consistency with the HTTP fetcher
	response.Headers = make(map[string][]string)
	response.Headers["Content-Type"] = []string{"application/octet-stream"}
	response.Headers["Content-Length"] = []string{fmt.Sprintf("%d", len(data))}
	if isCompressed {
		response.Headers["Content-Encoding"] = []string{"gzip"}
	}

	return response, nil
}

// FetchWithRetry implements retry logic for local file access (mainly for consistency)
func (f *LocalFetcher) FetchWithRetry(request *PayloadRequest) (*PayloadResponse, error) {
	maxRetries := 3
	var lastResponse *PayloadResponse
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Brief delay for potential transient file system issues
			time.Sleep(time.Duration(attempt*100) * time.Millisecond)
		}

		response, err := f.Fetch(request)
		if err == nil {
			return response, nil
		}

		lastResponse = response
		lastErr = err

		if !f.shouldRetry(response, err) {
			break
		}
	}

	return lastResponse, fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}

// buildFilePath constructs the file path for a payload request
func (f *LocalFetcher) buildFilePath(request *PayloadRequest) (string, error) {
	if request.URL != "" {
		// If URL is provided, treat it as a direct file path
		if filepath.IsAbs(request.URL) {
			return request.URL, nil
		}
		// Relative path - combine with base path
		return filepath.Join(f.config.BasePath, request.URL), nil
	}

	if f.config.BasePath == "" {
		return "", fmt.Errorf("base_path is required for id-based file paths")
	}
	if request.ID == "" {
		return "", fmt.Errorf("shapefile id is required")
	}

	extension := f.config.Extension
	if f.config.Compressed {
		extension += ".gz"
	}

	return filepath.Join(f.config.BasePath, request.ID+extension), nil
}

// isCompressedFile determines if a file is compressed based on its extension
func (f *LocalFetcher) isCompressedFile(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), ".gz")
}

// shouldRetry determines if a failed local file access should be retried
func (f *LocalFetcher) shouldRetry(response *PayloadResponse, err error) bool {
	if response == nil {
		return true
	}

	// Don't retry on file not found or permission errors
	if appErr, ok := err.(*internal.Error); ok {
		switch appErr.Code {
		case internal.ErrorCodeNotFound, internal.ErrorCodePermission, internal.ErrorCodeValidation:
			return false
		}
	}

	// Retry on file system errors that might be transient
	return true
}

// ListAvailableShapefiles scans the base directory for shapefile payloads
func (f *LocalFetcher) ListAvailableShapefiles() ([]string, error) {
	if f.config.BasePath == "" {
		return nil, fmt.Errorf("base_path is required for shapefile listing")
	}

	var ids []string

	err := filepath.Walk(f.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		id, ok := f.parseIDFromPath(path)
		if !ok {
			// Skip files that don't match the expected pattern
			return nil
		}

		ids = append(ids, id)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan shapefile directory: %w", err)
	}

	return ids, nil
}

// parseIDFromPath extracts a shapefile id from a file path
func (f *LocalFetcher) parseIDFromPath(filePath string) (string, bool) {
	relPath, err := filepath.Rel(f.config.BasePath, filePath)
	if err != nil {
		return "", false
	}

	name := filepath.ToSlash(relPath)
	name = strings.TrimSuffix(name, ".gz")
	if !strings.HasSuffix(strings.ToLower(name), f.config.Extension) {
		return "", false
	}

	return strings.TrimSuffix(name, f.config.Extension), true
}

// ValidateShapefileExists checks if a specific shapefile exists locally
func (f *LocalFetcher) ValidateShapefileExists(id string) error {
	request := &PayloadRequest{ID: id}
	filePath, err := f.buildFilePath(request)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("shapefile %s not found", id), err)
		}
		return internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("cannot access shapefile %s", id), err)
	}

	return nil
}
