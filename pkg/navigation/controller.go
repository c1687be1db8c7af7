// pkg/navigation/controller.go - Deep-link navigation state machine
package navigation

import (
	"log"
	"sync"
	"time"

	"github.com/fieldops/geonav/pkg/geometry"
)

// DefaultTimeout is how long a navigation attempt may stay unresolved
// before the timeout notification fires
const DefaultTimeout = 5 * time.Second

// Controller resolves URL-encoded feature and boundary ids into map
// viewport actions. One instance exists per map-view lifetime; it is owned
// by that view and never shared.
//
// Each URL gets at most one attempt. Success, failure and timeout funnel
// through a single resolution point, so exactly one of them wins and the
// user is notified at most once.
type Controller struct {
	mu sync.Mutex

	state        State
	hasProcessed bool
	lastURL      string
	request      *Request

	timer    *time.Timer
	timeout  time.Duration
	mapReady bool
	disposed bool

	mapControl MapControl
	notifier   NotificationSink
	urlUpdater URLUpdater
	datasets   Datasets
}

// Option configures a controller
type Option func(*Controller)

// WithTimeout overrides the attempt deadline
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// NewController creates a navigation controller wired to its collaborators.
// The map-ready callback is registered once, here; readiness may arrive
// before or after the datasets, in any order.
func NewController(mapControl MapControl, notifier NotificationSink, urlUpdater URLUpdater, datasets Datasets, opts ...Option) *Controller {
	c := &Controller{
		state:      StateIdle,
		timeout:    DefaultTimeout,
		mapControl: mapControl,
		notifier:   notifier,
		urlUpdater: urlUpdater,
		datasets:   datasets,
	}
	for _, opt := range opts {
		opt(c)
	}

	mapControl.OnMapReady(func() {
		c.mu.Lock()
		c.mapReady = true
		c.mu.Unlock()
		c.TryAttempt()
	})

	return c
}

// HandleURL processes a mount or URL change. An unchanged URL is a no-op;
// a changed URL cancels any pending attempt and either arms a new one or,
// for dashboard navigation, marks the URL processed without ever
// attempting.
func (c *Controller) HandleURL(rawURL string) error {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	if rawURL == c.lastURL {
		c.mu.Unlock()
		return nil
	}

	request, err := ParseRequest(rawURL)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.stopTimerLocked()
	c.lastURL = rawURL
	c.request = request
	c.hasProcessed = false

	if request.Dashboard {
		c.state = StateSkippedDashboard
		c.hasProcessed = true
		c.mu.Unlock()
		return nil
	}

	if !request.HasTarget() {
		c.state = StateIdle
		c.hasProcessed = true
		c.mu.Unlock()
		return nil
	}

	c.state = StateAwaitingPrereqs
	c.timer = time.AfterFunc(c.timeout, c.onTimeout)
	c.mu.Unlock()

	c.TryAttempt()
	return nil
}

// TryAttempt runs the navigation attempt if the prerequisites are met:
// the map control must be ready and the dataset relevant to the requested
// id must be non-empty. Callers invoke it again whenever a prerequisite
// may have changed; resolved attempts make it a no-op.
func (c *Controller) TryAttempt() {
	c.mu.Lock()

	if c.disposed || c.hasProcessed || c.request == nil || c.state != StateAwaitingPrereqs {
		c.mu.Unlock()
		return
	}
	if !c.mapReady || !c.datasetReadyLocked() {
		c.mu.Unlock()
		return
	}

	c.state = StateAttempting
	request := c.request
	c.mu.Unlock()

	// Viewport commands run outside the lock; the widget may call back
	// into the controller synchronously.
	if request.FeatureID != "" && c.mapControl.ZoomToFeature(request.FeatureID) {
		c.resolve(StateSucceeded, "")
		return
	}
	if request.BoundaryID != "" && c.mapControl.ZoomToBoundary(request.BoundaryID) {
		c.resolve(StateSucceeded, "")
		return
	}

	c.resolve(StateFailed, MessageNavigationFailed)
}

// PanToExtent is the lookup-failure fallback: it drives the viewport to a
// computed extent instead of a named target
func (c *Controller) PanToExtent(extent geometry.Extent) {
	center := extent.Center()
	c.mapControl.PanTo(center[1], center[0], geometry.ZoomForExtent(extent))
}

// Dispose tears the controller down when the map view unmounts. The timer
// is cancelled so no stale notification can fire afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disposed = true
	c.hasProcessed = true
	c.stopTimerLocked()
}

// State returns the current machine state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasProcessed reports whether the current URL's attempt lifecycle has
// resolved
func (c *Controller) HasProcessed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasProcessed
}

// resolve is the single resolution point for success and failure. The
// first resolution wins; later ones, including the racing timeout, are
// no-ops.
func (c *Controller) resolve(state State, message string) {
	c.mu.Lock()

	if c.disposed || c.hasProcessed {
		c.mu.Unlock()
		return
	}

	c.hasProcessed = true
	c.state = state
	c.stopTimerLocked()
	request := c.request
	c.mu.Unlock()

	// Consumed parameters are stripped on success and failure alike
	if request != nil && c.urlUpdater != nil {
		c.urlUpdater.ReplaceURL(request.StripConsumedParams())
	}

	if message != "" {
		log.Printf("navigation attempt resolved %s for %s", state, request.RawURL)
		c.notifier.Notify(message)
	}
}

// onTimeout fires when no attempt resolved before the deadline. It shares
// the has-processed guard with resolve, so timeout and success are
// mutually exclusive.
func (c *Controller) onTimeout() {
	c.mu.Lock()

	if c.disposed || c.hasProcessed {
		c.mu.Unlock()
		return
	}

	c.hasProcessed = true
	c.state = StateFailed
	c.timer = nil
	c.mu.Unlock()

	c.notifier.Notify(MessageNavigationTimeout)
}

// datasetReadyLocked checks that the dataset relevant to the requested id
// is populated. Callers hold the mutex.
func (c *Controller) datasetReadyLocked() bool {
	if c.request.FeatureID != "" && c.datasets.FeatureCount() > 0 {
		return true
	}
	if c.request.BoundaryID != "" && c.datasets.BoundaryCount() > 0 {
		return true
	}
	return false
}

// stopTimerLocked cancels the pending failure timer. Callers hold the
// mutex.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
