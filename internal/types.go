// internal/types.go - Common types for internal packages
package internal

import (
	"context"
	"time"
)

// SourceType represents the type of shapefile payload source
type SourceType string

const (
	SourceTypeHTTP  SourceType = "http"
	SourceTypeLocal SourceType = "local"
)

// ApplicationConfig represents the global application configuration
type ApplicationConfig struct {
	LogLevel       string
	MaxConcurrency int
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	SourceType     SourceType
}

// ProcessingStats represents metrics for processing operations
type ProcessingStats struct {
	TotalShapefiles  int64
	ProcessedFiles   int64
	FailedFiles      int64
	TotalFeatures    int64
	RepairedVertices int64
	StartTime        time.Time
	EndTime          time.Time
	Throughput       float64
}

// ProcessingContext extends context with application-specific data
type ProcessingContext struct {
	context.Context
	Config *ApplicationConfig
	Stats  *ProcessingStats
}

// Error represents application-specific errors
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode constants for common error types
const (
	ErrorCodeNetwork    = "NETWORK_ERROR"
	ErrorCodeProcessing = "PROCESSING_ERROR"
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeConfig     = "CONFIG_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeTimeout    = "TIMEOUT_ERROR"
	ErrorCodeFileSystem = "FILESYSTEM_ERROR"
	ErrorCodePermission = "PERMISSION_ERROR"
	ErrorCodeDecode     = "DECODE_ERROR"
	ErrorCodeExtent     = "EXTENT_ERROR"
)
