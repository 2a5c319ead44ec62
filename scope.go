package digo

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Scope is a hierarchical resolution context bound to a root Provider (spec
// §3, §4.4): its own scoped cache, dispose bag, scope-local injections,
// label, and cancellation token.
type Scope struct {
	provider *Provider
	parent   *Scope
	label    string

	scoped sync.Map // Key -> *onceCell
	order  disposalOrder

	local sync.Map // Key -> any, explicit scope-local injections

	cancellation *CancellationToken
	runCtx       *runContext

	disposeOnce sync.Once
}

type scopeSettings struct {
	label          string
	isolateContext bool
}

// ScopeOption configures a Scope at creation time.
type ScopeOption func(*scopeSettings)

func withLabel(label string) ScopeOption {
	return func(s *scopeSettings) { s.label = label }
}

// WithIsolatedContext makes the new Scope start with no inherited ambient
// RunContext values, instead of the default Inherit policy (spec §4.4, §9).
func WithIsolatedContext() ScopeOption {
	return func(s *scopeSettings) { s.isolateContext = true }
}

func newScope(p *Provider, parent *Scope, opts ...ScopeOption) *Scope {
	settings := scopeSettings{}
	for _, opt := range opts {
		opt(&settings)
	}
	label := settings.label
	if label == "" {
		label = uuid.NewString()
	}

	var parentCtx context.Context
	var parentRun *runContext
	if parent != nil {
		parentCtx = parent.cancellation.ctx
		parentRun = parent.runCtx
	}
	s := &Scope{
		provider:     p,
		parent:       parent,
		label:        label,
		cancellation: newCancellationToken(parentCtx),
	}
	if settings.isolateContext || parent == nil {
		s.runCtx = newRunContext(nil)
	} else {
		s.runCtx = newRunContext(parentRun)
	}
	return s
}

var _ Resolver = (*Scope)(nil)

// Label returns the scope's diagnostic label, either caller-supplied or a
// generated UUID (see digo/v2's domain-stack choice to lean on
// github.com/google/uuid for this, matching the wider pack's usage of it).
func (s *Scope) Label() string { return s.label }

// Parent returns the parent Scope, if this Scope is a labeled child of one.
func (s *Scope) Parent() (*Scope, bool) {
	if s.parent != nil {
		return s.parent, true
	}
	return nil, false
}

// Resolve looks up and, if necessary, constructs the instance for key
// within this Scope (spec §4.3, §4.4).
func (s *Scope) Resolve(key Key) (any, error) {
	rc := &resolveCtx{provider: s.provider, scope: s}
	return s.provider.resolveWithCtx(rc, key)
}

// ResolveAllMulti resolves every registered slot of traitName's
// multi-binding list within this Scope.
func (s *Scope) ResolveAllMulti(traitName string, name ...string) ([]any, error) {
	rc := &resolveCtx{provider: s.provider, scope: s}
	return s.provider.resolveAllMultiWithCtx(rc, traitName, firstOrEmpty(name))
}

// CurrentScope returns this Scope.
func (s *Scope) CurrentScope() (*Scope, bool) { return s, true }

// Cancellation returns this Scope's cancellation view.
func (s *Scope) Cancellation() CancellationView { return s.cancellation }

// Cancel requests cancellation of this Scope and every descendant Scope
// created from it (spec §4.4: "Child Scopes inherit cancellation").
func (s *Scope) Cancel() { s.cancellation.Cancel() }

// SetLocal pre-populates key with value: subsequent resolves for key within
// this Scope return the injected value without invoking a constructor
// (spec §4.4). The injection is per-Scope only — it is not visible to any
// descendant Scope created from this one; see lookupLocal.
func (s *Scope) SetLocal(key Key, value any) {
	s.local.Store(key, value)
}

// lookupLocal checks this Scope's own scope-local injections only — a
// child Scope does not automatically see its parent's local injections,
// matching spec §3's "scoped_cache: Key -> SharedAny (values injected into
// the scope explicitly...)" being per-Scope state.
func (s *Scope) lookupLocal(key Key) (any, bool) {
	v, ok := s.local.Load(key)
	return v, ok
}

// Dispose drains this Scope's dispose bag in LIFO order with respect to
// first successful resolution (spec §3, §4.4, §8 property 6). Safe to call
// more than once; subsequent calls are no-ops.
func (s *Scope) Dispose() error {
	return s.DisposeContext(context.Background())
}

// DisposeContext is Dispose with an explicit context for async disposers.
func (s *Scope) DisposeContext(ctx context.Context) error {
	var err error
	s.disposeOnce.Do(func() {
		keys := s.order.snapshot()
		err = drainDisposal(ctx, keys, &s.scoped, s.provider.reg.observers, s.provider.cfg.Logger)
	})
	return err
}
