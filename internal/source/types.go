// internal/source/types.go - Shapefile payload source types
package source

import (
	"net/http"
	"time"
)

// PayloadRequest represents a request for a single shapefile payload
type PayloadRequest struct {
	ID      string            `json:"id"`
	Name    string            `json:"name,omitempty"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// PayloadResponse represents the response from a payload source
type PayloadResponse struct {
	Request    *PayloadRequest `json:"request"`
	Data       []byte          `json:"data"`
	Headers    http.Header     `json:"headers"`
	StatusCode int             `json:"status_code"`
	Size       int             `json:"size"`
	FetchTime  time.Duration   `json:"fetch_time"`
	Error      error           `json:"error,omitempty"`
}

// Fetcher defines the interface for retrieving shapefile payloads
type Fetcher interface {
	Fetch(request *PayloadRequest) (*PayloadResponse, error)
	FetchWithRetry(request *PayloadRequest) (*PayloadResponse, error)
}

// NewPayloadRequest creates a payload request for the given shapefile id
func NewPayloadRequest(id, url string) *PayloadRequest {
	return &PayloadRequest{
		ID:      id,
		URL:     url,
		Headers: make(map[string]string),
	}
}
