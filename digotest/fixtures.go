// Package digotest holds shared test fixtures for the digo container, the
// same split the teacher keeps between its services_test and mock packages
// (mock/container_test_shared.go in the original digo): production tests
// live in package-level _test.go files and import this package for the
// services they wire together.
package digotest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// FakeClock is a deterministic Clock for asserting observer durations
// without depending on wall-clock timing.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock starting at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now implements digo.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// RecordingLog collects strings appended by fixture services, used to
// assert disposal and construction order.
type RecordingLog struct {
	mu      sync.Mutex
	entries []string
}

// Record appends entry to the log.
func (l *RecordingLog) Record(entry string) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a snapshot of everything recorded so far.
func (l *RecordingLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Counter is a Scoped-friendly service that increments a shared counter
// exactly once per construction — used to test scoped isolation (spec §8
// property 2 and the "two scopes resolve once each, counter equals 2"
// scenario).
type Counter struct {
	n *int64
}

// NewCounterConstructor returns a constructor that increments *n every time
// it runs, and the *Counter it produced.
func NewCounterConstructor(n *int64) func() (*Counter, error) {
	return func() (*Counter, error) {
		atomic.AddInt64(n, 1)
		return &Counter{n: n}, nil
	}
}

// DisposableService appends "d:<name>" to a RecordingLog when disposed.
type DisposableService struct {
	Name string
	Log  *RecordingLog
}

// Dispose implements digo.Disposable.
func (s *DisposableService) Dispose() error {
	s.Log.Record("d:" + s.Name)
	return nil
}

// AsyncDisposableService appends "ad:<name>" to a RecordingLog when
// asynchronously disposed.
type AsyncDisposableService struct {
	Name string
	Log  *RecordingLog
}

// DisposeAsync implements digo.AsyncDisposable.
func (s *AsyncDisposableService) DisposeAsync(_ context.Context) error {
	s.Log.Record("ad:" + s.Name)
	return nil
}

// FailEveryNth returns a constructor that fails every n-th call (1-indexed)
// and otherwise succeeds, for testing Transient construction-failure
// propagation (spec §8's "Factory whose constructor fails on every third
// call" scenario).
func FailEveryNth(n int) func() (string, error) {
	count := 0
	return func() (string, error) {
		count++
		if count%n == 0 {
			return "", fmt.Errorf("synthetic failure on call %d", count)
		}
		return fmt.Sprintf("ok-%d", count), nil
	}
}

// Plugin is the trait implemented by the 16-strong multi-binding fixture
// family used to test registration-order preservation (spec §8 property 4).
type Plugin interface {
	Name() string
}

// NamedPlugin is a trivial Plugin implementation identified by Label.
type NamedPlugin struct {
	Label string
}

// Name implements Plugin.
func (p *NamedPlugin) Name() string { return p.Label }

// PluginNames returns the canonical P1..P16 label sequence the fixture
// family is registered with.
func PluginNames() []string {
	names := make([]string, 16)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i+1)
	}
	return names
}

// CyclicA and CyclicB depend on each other, for testing circular-dependency
// detection (spec §8's "Register A depending on B, and B depending on A"
// scenario).
type CyclicA struct{ B *CyclicB }
type CyclicB struct{ A *CyclicA }
