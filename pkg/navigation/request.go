// pkg/navigation/request.go - Deep-link URL parsing
package navigation

import (
	"fmt"
	"net/url"
)

// Query parameter names consumed by the navigation engine
const (
	ParamFeature  = "feature"
	ParamBoundary = "boundary"
	ParamTab      = "tab"
)

// Request is a parsed deep-link navigation request. Dashboard marks URLs
// whose tab parameter indicates ordinary in-app navigation; the engine
// never attempts anything for those.
type Request struct {
	FeatureID  string
	BoundaryID string
	Dashboard  bool
	RawURL     string
}

// ParseRequest extracts the navigation request from a URL. The request is
// parsed once per URL; the tab marker is presence-only.
func ParseRequest(rawURL string) (*Request, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation URL: %w", err)
	}

	query := parsed.Query()
	request := &Request{
		FeatureID:  query.Get(ParamFeature),
		BoundaryID: query.Get(ParamBoundary),
		RawURL:     rawURL,
	}

	if _, present := query[ParamTab]; present {
		request.Dashboard = true
	}

	return request, nil
}

// HasTarget reports whether the request names a feature or boundary
func (r *Request) HasTarget() bool {
	return r.FeatureID != "" || r.BoundaryID != ""
}

// StripConsumedParams removes the feature and boundary parameters from the
// URL, preserving everything else. Called on success and on failure alike
// so a reload never replays the attempt.
func (r *Request) StripConsumedParams() string {
	parsed, err := url.Parse(r.RawURL)
	if err != nil {
		return r.RawURL
	}

	query := parsed.Query()
	query.Del(ParamFeature)
	query.Del(ParamBoundary)
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
