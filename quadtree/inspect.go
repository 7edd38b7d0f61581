package quadtree

import "github.com/lixenwraith/nbody/vmath"

// Kind is the state of a node
type Kind uint8

const (
	KindEmpty Kind = iota
	KindLeaf
	KindInternal
	KindBucket
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLeaf:
		return "leaf"
	case KindInternal:
		return "internal"
	case KindBucket:
		return "bucket"
	default:
		return "unknown"
	}
}

// NodeInfo is a read-only view of one node
// Mass and CenterOfMass are derived on demand for leaves
type NodeInfo struct {
	Kind         Kind
	Depth        int
	Bounds       vmath.Rect
	Mass         float64
	CenterOfMass vmath.Vec2
	// Count is the number of particles stored directly in the node
	Count int
}

// Stats summarizes one build
type Stats struct {
	Nodes     int
	Empty     int
	Leaves    int
	Internal  int
	Buckets   int
	MaxDepth  int
	Particles int
	Dropped   int
}

func (t *Tree) info(i int32) NodeInfo {
	n := &t.nodes[i]
	ni := NodeInfo{
		Kind:   n.kind(),
		Depth:  int(n.depth),
		Bounds: n.bounds,
	}
	switch ni.Kind {
	case KindLeaf:
		ni.Mass = n.body.Mass
		ni.CenterOfMass = n.body.Position
		ni.Count = 1
	case KindInternal:
		ni.Mass = n.mass
		ni.CenterOfMass = vmath.Div(n.massPos, n.mass)
	case KindBucket:
		ni.Mass = n.mass
		ni.CenterOfMass = vmath.Div(n.massPos, n.mass)
		ni.Count = len(n.bucket)
	}
	return ni
}

// Root returns the root node view
func (t *Tree) Root() NodeInfo {
	return t.info(0)
}

// Mass returns the total mass represented by the tree, dropped duplicates excluded
func (t *Tree) Mass() float64 {
	return t.info(0).Mass
}

// CenterOfMass returns the mass-weighted centroid of the tree, zero vector when empty
func (t *Tree) CenterOfMass() vmath.Vec2 {
	return t.info(0).CenterOfMass
}

// Len returns the number of particles represented, duplicates excluded
func (t *Tree) Len() int {
	return t.inserted
}

// Dropped returns the number of insertions discarded as coincident
func (t *Tree) Dropped() int {
	return t.dropped
}

// Walk visits nodes depth-first, parent before children
// Returning false from fn skips the node's subtree
func (t *Tree) Walk(fn func(NodeInfo) bool) {
	t.walk(0, fn)
}

func (t *Tree) walk(i int32, fn func(NodeInfo) bool) {
	if !fn(t.info(i)) {
		return
	}
	if c := t.nodes[i].children; c != noChildren {
		for k := c; k < c+4; k++ {
			t.walk(k, fn)
		}
	}
}

// Children returns the four child views of an internal node reached by path
// path holds child offsets 0..3 from the root; ok is false if the path leaves the tree
func (t *Tree) Children(path ...int) (children [4]NodeInfo, ok bool) {
	i := int32(0)
	for _, step := range path {
		c := t.nodes[i].children
		if c == noChildren || step < 0 || step > 3 {
			return children, false
		}
		i = c + int32(step)
	}
	c := t.nodes[i].children
	if c == noChildren {
		return children, false
	}
	for k := int32(0); k < 4; k++ {
		children[k] = t.info(c + k)
	}
	return children, true
}

// Stats counts nodes by kind for the current build
func (t *Tree) Stats() Stats {
	s := Stats{
		Nodes:     len(t.nodes),
		MaxDepth:  t.maxDepth,
		Particles: t.inserted,
		Dropped:   t.dropped,
	}
	for i := range t.nodes {
		switch t.nodes[i].kind() {
		case KindEmpty:
			s.Empty++
		case KindLeaf:
			s.Leaves++
		case KindInternal:
			s.Internal++
		case KindBucket:
			s.Buckets++
		}
	}
	return s
}
