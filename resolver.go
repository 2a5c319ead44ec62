package digo

import (
	"errors"
	"sync"
)

// Resolver is implemented by both the root Provider and every Scope (spec
// §2, §6). User constructors and collaborators consume it to resolve their
// own dependencies.
type Resolver interface {
	// Resolve looks up and, if necessary, constructs the instance for key.
	Resolve(key Key) (any, error)
	// ResolveAllMulti resolves every registered slot for a trait's
	// multi-binding list, in registration order. name is optional; at most
	// one value is honored.
	ResolveAllMulti(traitName string, name ...string) ([]any, error)
	// CurrentScope returns the active Scope, if resolution is happening
	// through one.
	CurrentScope() (*Scope, bool)
	// Cancellation exposes a read-only view of the active cancellation
	// token, always non-nil.
	Cancellation() CancellationView
}

// resolveCtx is the execution-local resolution context: the cycle guard and
// depth counter travel with this object across the whole recursive resolve
// call tree, rather than through goroutine-local storage. This is a
// deliberate departure from the teacher's runtime.Stack-based goroutine-ID
// technique (see goroutine.go in the original digo): thread-local tracking
// silently loses the guard the moment a constructor hands resolution off to
// another goroutine, which spec §5's suspension-points note explicitly
// warns against ("the guard must be carried in the task/context object
// rather than rely on thread-local storage alone"). Passing the same
// resolveCtx as the Resolver argument to every nested Constructor call
// keeps the guard correct by construction, at the cost of requiring that a
// single resolveCtx never itself be shared across concurrent goroutines.
type resolveCtx struct {
	provider *Provider
	scope    *Scope
	path     []Key
}

var _ Resolver = (*resolveCtx)(nil)

func (rc *resolveCtx) Resolve(key Key) (any, error) {
	return rc.provider.resolveWithCtx(rc, key)
}

func (rc *resolveCtx) ResolveAllMulti(traitName string, name ...string) ([]any, error) {
	return rc.provider.resolveAllMultiWithCtx(rc, traitName, firstOrEmpty(name))
}

func (rc *resolveCtx) CurrentScope() (*Scope, bool) {
	if rc.scope != nil {
		return rc.scope, true
	}
	return nil, false
}

func (rc *resolveCtx) Cancellation() CancellationView {
	if rc.scope != nil {
		return rc.scope.cancellation
	}
	return neverCancelled{}
}

func firstOrEmpty(names []string) string {
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

// resolveWithCtx implements the algorithm of spec §4.3 steps 1-9, shared by
// Provider.Resolve and Scope.Resolve.
func (p *Provider) resolveWithCtx(rc *resolveCtx, k Key) (any, error) {
	for _, seen := range rc.path {
		if seen == k {
			cyclePath := append(append([]Key{}, rc.path...), k)
			return nil, &CircularError{Path: cyclePath}
		}
	}
	if len(rc.path) >= p.cfg.MaxResolutionDepth {
		return nil, &DepthExceededError{Limit: p.cfg.MaxResolutionDepth}
	}

	rc.path = append(rc.path, k)
	defer func() { rc.path = rc.path[:len(rc.path)-1] }()

	notifyObservers(p.reg.observers, p.cfg.Logger, Event{Kind: EventResolving, Key: k})
	start := p.cfg.Clock.Now()

	if rc.scope != nil {
		if v, ok := rc.scope.lookupLocal(k); ok {
			notifyObservers(p.reg.observers, p.cfg.Logger, Event{
				Kind: EventResolved, Key: k, CacheHit: true, Duration: p.cfg.Clock.Now().Sub(start),
			})
			return v, nil
		}
	}

	desc, ok := p.reg.lookupSingle(k)
	if !ok {
		if k.IsTrait() {
			if slot, ok2 := p.lookupMultiSlot(k); ok2 {
				desc, ok = slot, true
			}
		}
	}
	if !ok {
		err := &NotFoundError{Key: k}
		notifyObservers(p.reg.observers, p.cfg.Logger, Event{Kind: EventConstructionFailed, Key: k, Err: err})
		return nil, err
	}

	if desc.Lifetime == Scoped && rc.scope == nil {
		err := &ScopeRequiredError{Key: k}
		notifyObservers(p.reg.observers, p.cfg.Logger, Event{Kind: EventConstructionFailed, Key: k, Err: err})
		return nil, err
	}

	var instance any
	var err error
	var cacheHit bool

	switch desc.Lifetime {
	case Singleton:
		instance, err, cacheHit = resolveCached(&p.singletons, nil, p.reg.decorators[k], k, desc, rc)
	case Scoped:
		instance, err, cacheHit = resolveCached(&rc.scope.scoped, &rc.scope.order, p.reg.decorators[k], k, desc, rc)
	case Transient:
		instance, err = constructOnce(k, desc, p.reg.decorators[k], rc)
	}

	duration := p.cfg.Clock.Now().Sub(start)
	if err != nil {
		notifyObservers(p.reg.observers, p.cfg.Logger, Event{Kind: EventConstructionFailed, Key: k, Err: err})
		return nil, err
	}
	notifyObservers(p.reg.observers, p.cfg.Logger, Event{
		Kind: EventResolved, Key: k, Lifetime: desc.Lifetime, CacheHit: cacheHit, Duration: duration,
	})
	return instance, nil
}

// lookupMultiSlot resolves a MultiTrait/NamedMultiTrait Key to the
// Descriptor at its declared index, if any.
func (p *Provider) lookupMultiSlot(k Key) (*Descriptor, bool) {
	list, ok := p.reg.lookupMulti(k.trait, k.name)
	if !ok || k.index < 0 || k.index >= len(list) {
		return nil, false
	}
	return list[k.index], true
}

// onceCell is the at-most-one-construction primitive backing both the
// singleton cache (Provider) and the scoped cache (Scope): a sync.Once per
// Key, with cancellation carved out as a documented exception (spec §5:
// "already-cached instances are unaffected... [a cancelled] instance is not
// cached") — a cancelled outcome swaps itself out of the map so a later
// resolve attempt gets a fresh cell to retry construction in.
type onceCell struct {
	once  sync.Once
	value any
	err   error
}

func resolveCached(cache *sync.Map, order *disposalOrder, decorators []Decorator, k Key, desc *Descriptor, rc *resolveCtx) (any, error, bool) {
	cellIface, _ := cache.LoadOrStore(k, &onceCell{})
	cell := cellIface.(*onceCell)

	var built bool
	cell.once.Do(func() {
		built = true
		raw, cerr := desc.Constructor(rc)
		if cerr != nil {
			cell.err = wrapConstructionError(k, cerr)
			return
		}
		decorated, derr := applyDecorators(raw, rc, decorators)
		if derr != nil {
			cell.err = wrapConstructionError(k, derr)
			return
		}
		cell.value = decorated
		if order != nil {
			order.append(k)
		}
	})

	if built && isCancelled(cell.err) {
		cache.CompareAndSwap(k, cell, &onceCell{})
		return nil, cell.err, false
	}
	return cell.value, cell.err, !built
}

func constructOnce(k Key, desc *Descriptor, decorators []Decorator, rc *resolveCtx) (any, error) {
	raw, err := desc.Constructor(rc)
	if err != nil {
		return nil, wrapConstructionError(k, err)
	}
	decorated, err := applyDecorators(raw, rc, decorators)
	if err != nil {
		return nil, wrapConstructionError(k, err)
	}
	// Transient disposers are caller-owned and not tracked by the
	// container (spec §4.3 step 7).
	return decorated, nil
}

// wrapConstructionError preserves a raised CancelledError untouched so
// callers can distinguish it from an ordinary construction failure (spec
// §7 lists Cancelled and ConstructionFailed as mutually exclusive kinds).
func wrapConstructionError(k Key, err error) error {
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return err
	}
	return &ConstructionFailedError{Key: k, Source: err}
}

func isCancelled(err error) bool {
	var cancelled *CancelledError
	return errors.As(err, &cancelled)
}

// resolveAllMultiWithCtx resolves every slot of traitName's ordered list
// through the shared algorithm, failing on first error without rolling back
// already-cached singletons (spec §4.3: "Partial failure mode").
func (p *Provider) resolveAllMultiWithCtx(rc *resolveCtx, traitName, name string) ([]any, error) {
	list, ok := p.reg.lookupMulti(traitName, name)
	if !ok {
		return nil, &NotFoundError{Key: ForTrait(traitName)}
	}
	results := make([]any, 0, len(list))
	for i := range list {
		k := ForMultiTrait(traitName, i)
		if name != "" {
			k = ForNamedMultiTrait(traitName, name, i)
		}
		v, err := rc.provider.resolveWithCtx(rc, k)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}
