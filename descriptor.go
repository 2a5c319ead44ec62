package digo

import "context"

// Constructor builds a service instance given a Resolver for resolving its
// own dependencies. It must be safe to call concurrently and, ideally,
// side-effect free — the multi-binding resolve does not roll back earlier
// successes on a later failure (spec §4.3), so constructors that are not
// idempotent can leave observably partial state behind.
type Constructor func(Resolver) (any, error)

// Disposable is implemented by instances that need synchronous cleanup when
// their owning Provider or Scope is disposed.
type Disposable interface {
	Dispose() error
}

// AsyncDisposable is implemented by instances whose cleanup must run on the
// async runtime. Async disposers are awaited sequentially, after all
// synchronous disposers in the same dispose bag have run.
type AsyncDisposable interface {
	DisposeAsync(ctx context.Context) error
}

// Descriptor is the frozen metadata the Registry stores for one Key.
type Descriptor struct {
	Lifetime         Lifetime
	Constructor      Constructor
	ImplementationID string
	Metadata         map[string]any
	// DependsOn is an optional, statically-declared list of Keys this
	// descriptor's constructor is known to resolve. It powers both build-time
	// validation (§7 ValidationFailed) and the graph export (§6); it is never
	// required and is not inferred by tracing actual resolution.
	DependsOn []Key

	eagerInstance *eagerValue
}

// eagerValue carries a pre-built singleton instance supplied directly to the
// builder via AddEagerSingleton, equivalent to a constructor that returns it.
type eagerValue struct {
	value any
}

func eagerConstructor(v *eagerValue) Constructor {
	return func(Resolver) (any, error) {
		return v.value, nil
	}
}
