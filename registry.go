package digo

import "fmt"

// registry is the frozen, read-only service catalog produced by
// Collection.Build (spec §3). It requires no synchronization once built:
// every field is immutable from that point on.
type registry struct {
	single   map[Key]*Descriptor
	multi    map[multiKey][]*Descriptor
	disposal []Key // declared registration order, for root disposal LIFO

	decorators map[Key][]Decorator
	observers  []Observer
}

func (reg *registry) lookupSingle(k Key) (*Descriptor, bool) {
	d, ok := reg.single[k]
	return d, ok
}

func (reg *registry) lookupMulti(traitName, name string) ([]*Descriptor, bool) {
	list, ok := reg.multi[multiKeyOf(traitName, name)]
	return list, ok
}

// validate runs two static checks for ValidationFailed: an unknown
// dependency referenced by a statically-declared edge, and a
// scoped-depends-on-scoped cycle discoverable via those static edges.
// Duplicate single-binding keys with conflicting lifetimes are not checked:
// single holds one Descriptor per Key, and Add replaces the whole
// Descriptor (lifetime included), so an earlier registration's lifetime is
// not kept for comparison.
func (reg *registry) validate() []string {
	var reasons []string

	for k, d := range reg.single {
		for _, dep := range d.DependsOn {
			if !reg.hasAny(dep) {
				reasons = append(reasons, fmt.Sprintf("%s declares a dependency on unregistered %s", k, dep))
			}
		}
	}
	for mk, list := range reg.multi {
		for i, d := range list {
			for _, dep := range d.DependsOn {
				if !reg.hasAny(dep) {
					reasons = append(reasons, fmt.Sprintf("%s#%d declares a dependency on unregistered %s", mk.trait, i, dep))
				}
			}
		}
	}

	if cyc := reg.findScopedCycle(); cyc != nil {
		reasons = append(reasons, fmt.Sprintf("scoped dependency cycle: %s", formatPath(cyc)))
	}

	return reasons
}

func (reg *registry) hasAny(k Key) bool {
	if _, ok := reg.single[k]; ok {
		return true
	}
	if k.IsTrait() {
		if _, ok := reg.multi[multiKeyOf(k.trait, k.name)]; ok {
			return true
		}
	}
	return false
}

// findScopedCycle walks the statically declared DependsOn edges between
// Scoped descriptors only, looking for a cycle. Returns the cycle path, or
// nil if none is found or if edges were not declared (in which case this
// check is a no-op, per spec §6: "If edges cannot be declared statically,
// the export reflects only the nodes" — the same applies to validation).
func (reg *registry) findScopedCycle() []Key {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Key]int)
	var path []Key
	var cyc []Key

	var visit func(k Key) bool
	visit = func(k Key) bool {
		color[k] = gray
		path = append(path, k)
		d, ok := reg.single[k]
		if ok && d.Lifetime == Scoped {
			for _, dep := range d.DependsOn {
				depDesc, depOK := reg.single[dep]
				if !depOK || depDesc.Lifetime != Scoped {
					continue
				}
				switch color[dep] {
				case white:
					if visit(dep) {
						return true
					}
				case gray:
					cyc = append(append([]Key{}, path...), dep)
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[k] = black
		return false
	}

	for k, d := range reg.single {
		if d.Lifetime != Scoped {
			continue
		}
		if color[k] == white {
			path = nil
			if visit(k) {
				return cyc
			}
		}
	}
	return nil
}
