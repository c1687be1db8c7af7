// pkg/navigation/types.go - Navigation collaborator interfaces
package navigation

import "errors"

// State identifies the navigation controller's position in its lifecycle
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingPrereqs  State = "awaiting_prereqs"
	StateAttempting       State = "attempting"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
	StateSkippedDashboard State = "skipped_dashboard"
)

// User-facing notification messages
const (
	MessageNavigationFailed  = "Navigation Failed"
	MessageNavigationTimeout = "Navigation Timeout"
)

// Errors surfaced by navigation resolution
var (
	ErrTargetNotFound = errors.New("navigation target not found")
	ErrTimeout        = errors.New("navigation timed out")
)

// MapControl is the consumed map-widget API. OnMapReady registers a
// callback invoked once the widget can accept viewport commands; it may
// fire immediately if the widget is already ready.
type MapControl interface {
	PanTo(lat, lng float64, zoom uint8)
	ZoomToFeature(id string) bool
	ZoomToBoundary(id string) bool
	OnMapReady(callback func())
}

// NotificationSink delivers user-facing messages through the surrounding
// application
type NotificationSink interface {
	Notify(message string)
}

// URLUpdater applies the post-navigation URL rewrite that strips consumed
// query parameters
type URLUpdater interface {
	ReplaceURL(rawURL string)
}

// Datasets exposes the read-only feature and boundary collections supplied
// by the surrounding application once they are populated
type Datasets interface {
	FeatureCount() int
	BoundaryCount() int
}

// String returns the state label
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the state admits no further attempt for the
// current URL
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateSkippedDashboard:
		return true
	default:
		return false
	}
}
