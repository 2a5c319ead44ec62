package digo

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// graphNode adapts a Key to gonum's graph.Node + dot label attribute,
// grounded on the pack's one graph-shaped example
// (bayleafwalker-bindery-core__graph.go) and original_source's
// graph_export.rs.
type graphNode struct {
	id  int64
	key Key
}

func (n graphNode) ID() int64 { return n.id }

func (n graphNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: fmt.Sprintf("%q", n.key.String())}}
}

// ExportGraph walks the frozen Registry and emits a DOT-format directed
// graph of Key-to-Key dependencies (spec §6). Edges come only from
// statically declared Descriptor.DependsOn hints — never from tracing an
// actual resolution — so a registry where no registrar declared any
// dependency produces a graph with nodes and no edges.
func (p *Provider) ExportGraph() ([]byte, error) {
	g := simple.NewDirectedGraph()

	ids := make(map[Key]int64)
	var nextID int64

	nodeFor := func(k Key) graphNode {
		id, ok := ids[k]
		if !ok {
			id = nextID
			nextID++
			ids[k] = id
			g.AddNode(graphNode{id: id, key: k})
		}
		return graphNode{id: id, key: k}
	}

	// Stable iteration order for deterministic output: declared
	// registration order, which p.reg.disposal records for single bindings
	// and multi-binding slots alike; the pass over multi keys sorted by
	// trait and name then adds any slot not already present.
	for _, k := range p.reg.disposal {
		nodeFor(k)
	}
	var multiKeys []multiKey
	for mk := range p.reg.multi {
		multiKeys = append(multiKeys, mk)
	}
	sort.Slice(multiKeys, func(i, j int) bool {
		if multiKeys[i].trait != multiKeys[j].trait {
			return multiKeys[i].trait < multiKeys[j].trait
		}
		return multiKeys[i].name < multiKeys[j].name
	})
	for _, mk := range multiKeys {
		for i := range p.reg.multi[mk] {
			k := ForMultiTrait(mk.trait, i)
			if mk.name != "" {
				k = ForNamedMultiTrait(mk.trait, mk.name, i)
			}
			nodeFor(k)
		}
	}

	addEdges := func(from Key, deps []Key) {
		for _, to := range deps {
			if !p.reg.hasAny(to) {
				continue
			}
			fromNode := nodeFor(from)
			toNode := nodeFor(to)
			if !g.HasEdgeFromTo(fromNode.ID(), toNode.ID()) {
				g.SetEdge(simple.Edge{F: fromNode, T: toNode})
			}
		}
	}
	for _, k := range p.reg.disposal {
		// p.reg.disposal also carries multi-binding slot Keys (for disposal
		// ordering), which have no p.reg.single entry; their edges are added
		// by the multiKeys loop below instead.
		if d, ok := p.reg.single[k]; ok {
			addEdges(k, d.DependsOn)
		}
	}
	for _, mk := range multiKeys {
		for i, d := range p.reg.multi[mk] {
			k := ForMultiTrait(mk.trait, i)
			if mk.name != "" {
				k = ForNamedMultiTrait(mk.trait, mk.name, i)
			}
			addEdges(k, d.DependsOn)
		}
	}

	return dot.Marshal(g, "digo", "", "  ")
}

var _ graph.Directed = (*simple.DirectedGraph)(nil)
