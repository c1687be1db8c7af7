// pkg/navigation/controller_test.go - Unit tests for the navigation state machine
package navigation

import (
	"testing"
	"time"
)

// fakeMap records viewport commands and resolves lookups from a fixed set
// of known ids
type fakeMap struct {
	ready         bool
	readyCallback func()
	knownFeatures map[string]bool
	knownBounds   map[string]bool
	featureCalls  []string
	boundaryCalls []string
	panCalls      int
	lastPanLat    float64
	lastPanLng    float64
	lastPanZoom   uint8
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		knownFeatures: make(map[string]bool),
		knownBounds:   make(map[string]bool),
	}
}

func (m *fakeMap) PanTo(lat, lng float64, zoom uint8) {
	m.panCalls++
	m.lastPanLat = lat
	m.lastPanLng = lng
	m.lastPanZoom = zoom
}

func (m *fakeMap) ZoomToFeature(id string) bool {
	m.featureCalls = append(m.featureCalls, id)
	return m.knownFeatures[id]
}

func (m *fakeMap) ZoomToBoundary(id string) bool {
	m.boundaryCalls = append(m.boundaryCalls, id)
	return m.knownBounds[id]
}

func (m *fakeMap) OnMapReady(callback func()) {
	m.readyCallback = callback
	if m.ready {
		callback()
	}
}

func (m *fakeMap) becomeReady() {
	m.ready = true
	if m.readyCallback != nil {
		m.readyCallback()
	}
}

type fakeSink struct {
	messages []string
}

func (s *fakeSink) Notify(message string) {
	s.messages = append(s.messages, message)
}

type fakeURLs struct {
	replaced []string
}

func (u *fakeURLs) ReplaceURL(rawURL string) {
	u.replaced = append(u.replaced, rawURL)
}

type fakeDatasets struct {
	features   int
	boundaries int
}

func (d *fakeDatasets) FeatureCount() int  { return d.features }
func (d *fakeDatasets) BoundaryCount() int { return d.boundaries }

type fixture struct {
	mapControl *fakeMap
	sink       *fakeSink
	urls       *fakeURLs
	datasets   *fakeDatasets
	controller *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		mapControl: newFakeMap(),
		sink:       &fakeSink{},
		urls:       &fakeURLs{},
		datasets:   &fakeDatasets{},
	}
	f.controller = NewController(f.mapControl, f.sink, f.urls, f.datasets, opts...)
	t.Cleanup(f.controller.Dispose)
	return f
}

func TestFeatureNavigationExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownFeatures["abc123"] = true
	f.datasets.features = 3
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.mapControl.featureCalls) != 1 || f.mapControl.featureCalls[0] != "abc123" {
		t.Fatalf("expected exactly one zoom call for abc123, got %v", f.mapControl.featureCalls)
	}
	if f.controller.State() != StateSucceeded {
		t.Errorf("state = %s, want %s", f.controller.State(), StateSucceeded)
	}
	if !f.controller.HasProcessed() {
		t.Error("attempt should be marked processed")
	}

	// Re-rendering with the same URL must not replay the attempt
	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.controller.TryAttempt()
	if len(f.mapControl.featureCalls) != 1 {
		t.Errorf("re-render replayed the attempt: %v", f.mapControl.featureCalls)
	}
}

func TestDashboardURLNeverAttempts(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownFeatures["abc"] = true
	f.datasets.features = 1
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?tab=boundaries"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.controller.State() != StateSkippedDashboard {
		t.Errorf("state = %s, want %s", f.controller.State(), StateSkippedDashboard)
	}
	if len(f.mapControl.featureCalls)+len(f.mapControl.boundaryCalls) != 0 {
		t.Error("dashboard URL must trigger zero navigation attempts")
	}
	if !f.controller.HasProcessed() {
		t.Error("dashboard URL should still be marked processed")
	}
}

func TestNoTargetStaysIdle(t *testing.T) {
	f := newFixture(t)
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.controller.State() != StateIdle {
		t.Errorf("state = %s, want %s", f.controller.State(), StateIdle)
	}
	if len(f.mapControl.featureCalls) != 0 {
		t.Error("no-target URL must not attempt")
	}
}

func TestWaitsForPrerequisites(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownFeatures["f-9"] = true

	if err := f.controller.HandleURL("https://app.example.com/map?feature=f-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.controller.State() != StateAwaitingPrereqs {
		t.Fatalf("state = %s, want %s", f.controller.State(), StateAwaitingPrereqs)
	}
	if len(f.mapControl.featureCalls) != 0 {
		t.Fatal("attempted before prerequisites were met")
	}

	// Datasets arrive first; the map is still not ready
	f.datasets.features = 5
	f.controller.TryAttempt()
	if len(f.mapControl.featureCalls) != 0 {
		t.Fatal("attempted before the map was ready")
	}

	f.mapControl.becomeReady()
	if len(f.mapControl.featureCalls) != 1 {
		t.Fatalf("expected one attempt after readiness, got %d", len(f.mapControl.featureCalls))
	}
	if f.controller.State() != StateSucceeded {
		t.Errorf("state = %s, want %s", f.controller.State(), StateSucceeded)
	}
}

func TestBoundaryFallback(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownBounds["zone-4"] = true
	f.datasets.features = 2
	f.datasets.boundaries = 2
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=missing&boundary=zone-4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.mapControl.featureCalls) != 1 {
		t.Errorf("feature lookup should run first, got %v", f.mapControl.featureCalls)
	}
	if len(f.mapControl.boundaryCalls) != 1 || f.mapControl.boundaryCalls[0] != "zone-4" {
		t.Errorf("expected boundary fallback to zone-4, got %v", f.mapControl.boundaryCalls)
	}
	if f.controller.State() != StateSucceeded {
		t.Errorf("state = %s, want %s", f.controller.State(), StateSucceeded)
	}
}

func TestFailureNotifiesAndStripsParams(t *testing.T) {
	f := newFixture(t)
	f.datasets.features = 1
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=ghost&tab2=x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.controller.State() != StateFailed {
		t.Fatalf("state = %s, want %s", f.controller.State(), StateFailed)
	}
	if len(f.sink.messages) != 1 || f.sink.messages[0] != MessageNavigationFailed {
		t.Errorf("expected one failure notification, got %v", f.sink.messages)
	}
	if len(f.urls.replaced) != 1 {
		t.Fatalf("expected one URL rewrite, got %v", f.urls.replaced)
	}
	rewritten := f.urls.replaced[0]
	if rewritten != "https://app.example.com/map?tab2=x" {
		t.Errorf("unexpected rewritten URL %q", rewritten)
	}
}

func TestSuccessStripsParams(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownFeatures["abc"] = true
	f.datasets.features = 1
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.urls.replaced) != 1 || f.urls.replaced[0] != "https://app.example.com/map" {
		t.Errorf("expected consumed params stripped on success, got %v", f.urls.replaced)
	}
	if len(f.sink.messages) != 0 {
		t.Errorf("success must not notify, got %v", f.sink.messages)
	}
}

func TestTimeoutNotifiesOnce(t *testing.T) {
	f := newFixture(t, WithTimeout(10*time.Millisecond))

	// Prerequisites never arrive
	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(time.Second)
	for f.controller.State() != StateFailed {
		select {
		case <-deadline:
			t.Fatal("timeout never fired")
		case <-time.After(time.Millisecond):
		}
	}

	time.Sleep(20 * time.Millisecond)
	if len(f.sink.messages) != 1 || f.sink.messages[0] != MessageNavigationTimeout {
		t.Errorf("expected exactly one timeout notification, got %v", f.sink.messages)
	}

	// Late-arriving prerequisites must not revive the attempt
	f.datasets.features = 1
	f.mapControl.knownFeatures["abc"] = true
	f.mapControl.becomeReady()
	if len(f.mapControl.featureCalls) != 0 {
		t.Errorf("attempt revived after timeout: %v", f.mapControl.featureCalls)
	}
}

func TestSuccessCancelsTimeout(t *testing.T) {
	f := newFixture(t, WithTimeout(15*time.Millisecond))
	f.mapControl.knownFeatures["abc"] = true
	f.datasets.features = 1
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.controller.State() != StateSucceeded {
		t.Fatalf("state = %s, want %s", f.controller.State(), StateSucceeded)
	}

	time.Sleep(40 * time.Millisecond)
	if len(f.sink.messages) != 0 {
		t.Errorf("timeout fired after success: %v", f.sink.messages)
	}
}

func TestNewURLResetsAttempt(t *testing.T) {
	f := newFixture(t)
	f.mapControl.knownFeatures["first"] = true
	f.mapControl.knownFeatures["second"] = true
	f.datasets.features = 2
	f.mapControl.becomeReady()

	if err := f.controller.HandleURL("https://app.example.com/map?feature=first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.controller.HandleURL("https://app.example.com/map?feature=second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.mapControl.featureCalls) != 2 {
		t.Fatalf("expected one attempt per URL, got %v", f.mapControl.featureCalls)
	}
	if f.mapControl.featureCalls[1] != "second" {
		t.Errorf("second attempt targeted %q", f.mapControl.featureCalls[1])
	}
}

func TestDisposeCancelsPendingTimer(t *testing.T) {
	f := newFixture(t, WithTimeout(10*time.Millisecond))

	if err := f.controller.HandleURL("https://app.example.com/map?feature=abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.controller.Dispose()

	time.Sleep(30 * time.Millisecond)
	if len(f.sink.messages) != 0 {
		t.Errorf("timer fired after dispose: %v", f.sink.messages)
	}
}

func TestMalformedURLRejected(t *testing.T) {
	f := newFixture(t)

	if err := f.controller.HandleURL("https://%zz"); err == nil {
		t.Fatal("expected parse error for malformed URL")
	}
	if f.controller.State() != StateIdle {
		t.Errorf("state changed on parse failure: %s", f.controller.State())
	}
}
