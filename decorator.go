package digo

// Decorator wraps a resolved instance with behavioral augmentation before it
// is cached or handed to the caller (spec §4.5). Decorators registered for
// the same Key stack in registration order: if D1..Dn are registered in that
// order, the effective instance is Dn(Dn-1(...D1(raw))) — D1 is applied
// first (innermost), Dn last (outermost).
//
// A Decorator must preserve the downcast target: whatever it returns is
// handed back through the same type assertion the original instance would
// have satisfied (spec §9's design note — a decorator that needs to expose
// a broader type must be registered against a separate Key instead).
type Decorator func(instance any, r Resolver) (any, error)

// applyDecorators applies d1..dn, in registration order, to raw.
func applyDecorators(raw any, r Resolver, chain []Decorator) (any, error) {
	cur := raw
	for _, d := range chain {
		next, err := d(cur, r)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
