// internal/source/fetcher_factory.go - Fetcher factory implementation
package source

import (
	"fmt"

	"github.com/fieldops/geonav/internal"
	"github.com/fieldops/geonav/internal/config"
)

// FetcherFactory creates appropriate fetchers based on configuration
type FetcherFactory struct {
	config *config.Config
}

// NewFetcherFactory creates a new fetcher factory
func NewFetcherFactory(cfg *config.Config) *FetcherFactory {
	return &FetcherFactory{
		config: cfg,
	}
}

// CreateFetcher creates the appropriate fetcher based on configuration
func (f *FetcherFactory) CreateFetcher() (Fetcher, error) {
	sourceType := f.config.DetermineSourceType()

	switch sourceType {
	case internal.SourceTypeHTTP:
		return NewHTTPFetcher(f.config), nil
	case internal.SourceTypeLocal:
		return NewLocalFetcher(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// CreateFetcherForType creates a fetcher for a specific source type
func (f *FetcherFactory) CreateFetcherForType(sourceType internal.SourceType) (Fetcher, error) {
	switch sourceType {
	case internal.SourceTypeHTTP:
		if f.config.Server.BaseURL == "" {
			return nil, fmt.Errorf("base_url is required for HTTP fetcher")
		}
		return NewHTTPFetcher(f.config), nil
	case internal.SourceTypeLocal:
		if f.config.Local.BasePath == "" {
			return nil, fmt.Errorf("base_path is required for local fetcher")
		}
		return NewLocalFetcher(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// GetSupportedSourceTypes returns the source types that can be created with current configuration
func (f *FetcherFactory) GetSupportedSourceTypes() []internal.SourceType {
	var supported []internal.SourceType

	if f.config.Server.BaseURL != "" {
		supported = append(supported, internal.SourceTypeHTTP)
	}
	if f.config.Local.BasePath != "" {
		supported = append(supported, internal.SourceTypeLocal)
	}

	return supported
}

// BuildRequest constructs a payload request for a shapefile id using the
// configured source type
func (f *FetcherFactory) BuildRequest(id string) *PayloadRequest {
	request := NewPayloadRequest(id, "")
	if f.config.DetermineSourceType() == internal.SourceTypeHTTP {
		request.URL = f.config.GetShapefileURL(id)
	}
	return request
}
