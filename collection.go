package digo

import (
	"fmt"
	"maps"
	"sync"
)

// RegOption configures one registration on top of its lifetime, key, and
// constructor.
type RegOption func(*Descriptor)

// WithMetadata attaches an opaque introspection bag to a registration.
func WithMetadata(meta map[string]any) RegOption {
	return func(d *Descriptor) { d.Metadata = meta }
}

// WithImplementationID records the concrete type behind a trait
// registration, used by replace-vs-append semantics (TryAddMultiByImpl).
func WithImplementationID(id string) RegOption {
	return func(d *Descriptor) { d.ImplementationID = id }
}

// WithDependsOn statically declares the Keys this registration's
// constructor will resolve, powering build-time validation and graph
// export (spec §6, §7).
func WithDependsOn(keys ...Key) RegOption {
	return func(d *Descriptor) { d.DependsOn = keys }
}

// Collection is the mutable staging area used before freezing (spec §4.1).
// Registration calls and Build are serialized by mu. Build takes a snapshot
// of the registrations, so calls made after Build do not affect the
// Provider it returned.
type Collection struct {
	mu sync.Mutex

	single map[Key]*Descriptor
	multi  map[multiKey][]*Descriptor
	order  []Key // first-registration order, for disposal_order

	decorators map[Key][]Decorator
	observers  []Observer

	cfg   Config
	built bool
}

// NewCollection creates an empty Collection configured by opts.
func NewCollection(opts ...Option) *Collection {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Collection{
		single:     make(map[Key]*Descriptor),
		multi:      make(map[multiKey][]*Descriptor),
		decorators: make(map[Key][]Decorator),
		cfg:        cfg,
	}
}

// Add inserts or replaces a single-binding slot for key. Replace semantics:
// the last Add for a given key wins (spec §4.1, §8 property 8).
func (c *Collection) Add(lifetime Lifetime, key Key, ctor Constructor, opts ...RegOption) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &Descriptor{Lifetime: lifetime, Constructor: ctor}
	for _, opt := range opts {
		opt(d)
	}
	if _, exists := c.single[key]; !exists {
		c.order = append(c.order, key)
	}
	c.single[key] = d
	return c
}

// AddEagerSingleton registers key with a pre-built instance, equivalent to a
// Singleton constructor that returns it directly (spec §3, §4.1).
func (c *Collection) AddEagerSingleton(key Key, value any) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := &eagerValue{value: value}
	d := &Descriptor{Lifetime: Singleton, Constructor: eagerConstructor(ev), eagerInstance: ev}
	if _, exists := c.single[key]; !exists {
		c.order = append(c.order, key)
	}
	c.single[key] = d
	return c
}

// AppendMulti pushes a new slot to the end of the ordered multi-binding
// list for traitName (+name). No deduplication is performed even if the
// same implID appears twice (spec §4.1, §3 invariants). The synthesized
// slot Key is also pushed onto the registration-order list that feeds
// reg.disposal, so a Singleton registered this way is disposed by
// Provider.Dispose like any single-binding Singleton (spec §4.2, §3).
func (c *Collection) AppendMulti(traitName, name string, lifetime Lifetime, ctor Constructor, implID string, opts ...RegOption) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &Descriptor{Lifetime: lifetime, Constructor: ctor, ImplementationID: implID}
	for _, opt := range opts {
		opt(d)
	}
	mk := multiKeyOf(traitName, name)
	c.multi[mk] = append(c.multi[mk], d)
	index := len(c.multi[mk]) - 1
	c.order = append(c.order, multiSlotKey(traitName, name, index))
	return c
}

// TryAdd registers key only if it is absent; otherwise it is a no-op. It
// observes the current slot atomically with respect to other builder calls
// (spec §9's resolution of the "replace wins vs TryAdd on the same key"
// ambiguity: TryAdd is a no-op whenever the slot is already occupied,
// regardless of how it got there).
func (c *Collection) TryAdd(lifetime Lifetime, key Key, ctor Constructor, opts ...RegOption) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.single[key]; exists {
		return c
	}
	d := &Descriptor{Lifetime: lifetime, Constructor: ctor}
	for _, opt := range opts {
		opt(d)
	}
	c.order = append(c.order, key)
	c.single[key] = d
	return c
}

// TryAddMultiByImpl appends to traitName's multi-binding list only if no
// existing entry carries the same implID (spec §4.1). Like AppendMulti, the
// synthesized slot Key is pushed onto the registration-order list that
// feeds reg.disposal.
func (c *Collection) TryAddMultiByImpl(traitName, name string, lifetime Lifetime, ctor Constructor, implID string, opts ...RegOption) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	mk := multiKeyOf(traitName, name)
	for _, existing := range c.multi[mk] {
		if existing.ImplementationID == implID {
			return c
		}
	}
	d := &Descriptor{Lifetime: lifetime, Constructor: ctor, ImplementationID: implID}
	for _, opt := range opts {
		opt(d)
	}
	c.multi[mk] = append(c.multi[mk], d)
	index := len(c.multi[mk]) - 1
	c.order = append(c.order, multiSlotKey(traitName, name, index))
	return c
}

// Decorate attaches a Decorator to key. Multiple decorators for the same
// key stack in registration order (spec §4.5).
func (c *Collection) Decorate(key Key, d Decorator) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decorators[key] = append(c.decorators[key], d)
	return c
}

// Observe registers an Observer. Delivery order equals registration order
// (spec §4.5, §5).
func (c *Collection) Observe(o Observer) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
	return c
}

// Build freezes the registry, runs validation (unless disabled), eagerly
// constructs singletons marked for it, and returns a Provider. A second
// call to Build fails with AlreadyBuiltError (spec §4.1, §8 property 7).
func (c *Collection) Build() (*Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return nil, &AlreadyBuiltError{}
	}
	c.built = true

	// The maps are copied so that registration calls made on c after Build
	// cannot mutate the frozen registry. The slices need no copy: every
	// builder call only appends, which never changes the prefix reg sees.
	reg := &registry{
		single:     maps.Clone(c.single),
		multi:      maps.Clone(c.multi),
		disposal:   c.order,
		decorators: maps.Clone(c.decorators),
		observers:  c.observers,
	}

	if c.cfg.ValidateOnBuild {
		if reasons := reg.validate(); len(reasons) > 0 {
			return nil, &ValidationFailedError{Reasons: reasons}
		}
	}

	p := newProvider(reg, c.cfg)

	if c.cfg.EagerSingletons {
		for _, k := range reg.disposal {
			// reg.disposal now also carries multi-binding slot Keys (for
			// disposal ordering); those have no reg.single entry, so skip
			// them here rather than dereferencing a nil Descriptor.
			d, ok := reg.single[k]
			if !ok {
				continue
			}
			if d.Lifetime == Singleton && d.eagerInstance != nil {
				if _, err := p.Resolve(k); err != nil {
					return nil, fmt.Errorf("digo: eager singleton %s: %w", k, err)
				}
			}
		}
	}

	return p, nil
}
