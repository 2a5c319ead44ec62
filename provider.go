package digo

import (
	"context"
	"sync"
)

// Provider owns the frozen Registry, the singleton cache, and the root
// dispose bag (spec §4.2). A Provider is shareable across goroutines;
// concurrent Resolve calls are safe.
type Provider struct {
	reg *registry
	cfg Config

	singletons sync.Map // Key -> *onceCell
}

func newProvider(reg *registry, cfg Config) *Provider {
	return &Provider{reg: reg, cfg: cfg}
}

var _ Resolver = (*Provider)(nil)

// Resolve looks up and, if necessary, constructs the instance for key.
// Resolving a Scoped descriptor through the root Provider fails with
// ScopeRequiredError (spec §4.2).
func (p *Provider) Resolve(key Key) (any, error) {
	rc := &resolveCtx{provider: p}
	return p.resolveWithCtx(rc, key)
}

// ResolveAllMulti resolves every registered slot of traitName's
// multi-binding list, in registration order (spec §4.2, §4.3).
func (p *Provider) ResolveAllMulti(traitName string, name ...string) ([]any, error) {
	rc := &resolveCtx{provider: p}
	return p.resolveAllMultiWithCtx(rc, traitName, firstOrEmpty(name))
}

// CurrentScope always returns (nil, false) for the root Provider.
func (p *Provider) CurrentScope() (*Scope, bool) { return nil, false }

// Cancellation returns a view over a token that is never cancelled: the
// root Provider has no lifetime shorter than the process itself.
func (p *Provider) Cancellation() CancellationView { return neverCancelled{} }

// CreateScope creates a new top-level Scope rooted at this Provider.
func (p *Provider) CreateScope(opts ...ScopeOption) *Scope {
	return newScope(p, nil, opts...)
}

// CreateLabeledChild creates a Scope nested under parent, propagating
// scope-local context per the chosen policy (spec §4.4; default Inherit).
func (p *Provider) CreateLabeledChild(parent *Scope, label string, opts ...ScopeOption) *Scope {
	opts = append([]ScopeOption{withLabel(label)}, opts...)
	return newScope(p, parent, opts...)
}

// Dispose releases every constructed singleton that implements Disposable
// or AsyncDisposable, in reverse registration order, then awaits async
// disposers (spec §4.2). Failure of one disposer does not prevent the
// others; all errors are collected and returned together.
func (p *Provider) Dispose() error {
	return p.DisposeContext(context.Background())
}

// DisposeContext is Dispose with an explicit context for async disposers.
func (p *Provider) DisposeContext(ctx context.Context) error {
	return drainDisposal(ctx, p.reg.disposal, &p.singletons, p.reg.observers, p.cfg.Logger)
}
