// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fieldops/geonav/internal"
	"github.com/fieldops/geonav/pkg/crs"
)

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateSource(config); err != nil {
		return fmt.Errorf("source configuration invalid: %w", err)
	}

	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	if err := validateBatch(&config.Batch); err != nil {
		return fmt.Errorf("batch configuration invalid: %w", err)
	}

	if err := validateNetwork(&config.Network); err != nil {
		return fmt.Errorf("network configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	if err := validateProjections(&config.Projections); err != nil {
		return fmt.Errorf("projections configuration invalid: %w", err)
	}

	if err := validateExtent(&config.Extent); err != nil {
		return fmt.Errorf("extent configuration invalid: %w", err)
	}

	return nil
}

// validateSource validates the active data source parameters. Only the
// configured source type's section must be complete.
func validateSource(config *Config) error {
	switch config.DetermineSourceType() {
	case internal.SourceTypeLocal:
		if config.Local.BasePath == "" {
			return fmt.Errorf("base_path is required for local sources")
		}
	default:
		if config.Server.BaseURL == "" {
			return fmt.Errorf("base_url is required for http sources")
		}
		if _, err := url.Parse(config.Server.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if config.Server.MaxRetries < 0 {
			return fmt.Errorf("max_retries must be non-negative")
		}
		if config.Server.Timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
	}

	return nil
}

// validateOutput validates output configuration parameters
func validateOutput(config *OutputConfig) error {
	validFormats := []string{"geojson", "json", "stats"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid format: %s, must be one of %v", config.Format, validFormats)
	}

	if !config.Stdout && config.Directory == "" {
		return fmt.Errorf("directory is required when not using stdout")
	}

	return nil
}

// validateBatch validates batch processing configuration parameters
func validateBatch(config *BatchConfig) error {
	if config.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	if config.Concurrency > 1000 {
		return fmt.Errorf("concurrency must not exceed 1000")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateNetwork validates network configuration parameters
func validateNetwork(config *NetworkConfig) error {
	if config.ProxyURL != "" {
		if _, err := url.Parse(config.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy_url: %w", err)
		}
	}

	if config.MaxIdleConns < 0 {
		return fmt.Errorf("max_idle_conns must be non-negative")
	}

	if config.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty")
	}

	if config.KeepAlive < 0 {
		return fmt.Errorf("keep_alive must be non-negative")
	}

	if config.IdleConnTimeout < 0 {
		return fmt.Errorf("idle_conn_timeout must be non-negative")
	}

	return nil
}

// validateLogging validates logging configuration parameters
func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", config.Level, validLevels)
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of %v", config.Format, validFormats)
	}

	validOutputs := []string{"stdout", "stderr", "file"}
	if !contains(validOutputs, config.Output) {
		return fmt.Errorf("invalid log output: %s, must be one of %v", config.Output, validOutputs)
	}

	return nil
}

// validateProjections checks that every configured candidate names a known
// projection and that the list preserves a usable order
func validateProjections(config *ProjectionsConfig) error {
	if len(config.Candidates) == 0 {
		return fmt.Errorf("at least one candidate projection is required")
	}

	if _, err := crs.CandidatesByName(config.Candidates); err != nil {
		return fmt.Errorf("invalid candidate list: %w", err)
	}

	return nil
}

// validateExtent validates extent computation parameters
func validateExtent(config *ExtentConfig) error {
	if config.PaddingRatio < 0 || config.PaddingRatio > 1 {
		return fmt.Errorf("padding_ratio must be between 0 and 1")
	}

	return nil
}

// contains checks if a string slice contains a specific string (case-insensitive)
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
