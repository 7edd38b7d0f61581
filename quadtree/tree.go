// Package quadtree implements the Barnes-Hut quadtree: one particle per leaf, mass and
// mass-weighted position aggregated at internal nodes, approximate force queries gated by
// an opening criterion
//
// Nodes live in an arena; an internal node's four children occupy consecutive slots in
// top-left, top-right, bottom-left, bottom-right order. Reset discards every node and
// keeps the backing storage for the next rebuild.
//
// Insert mutates the tree and must not run concurrently with anything else on the same
// tree. QueryForce only reads the tree and writes the queried particle's Force, so
// queries for distinct particles may run in parallel once construction is done.
package quadtree

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/nbody/particle"
	"github.com/lixenwraith/nbody/vmath"
)

const noChildren int32 = -1

// node is one arena slot; state is derived from which fields are set (see kind)
type node struct {
	bounds   vmath.Rect
	children int32 // index of the first of four children, noChildren otherwise
	depth    int32
	body     *particle.PointMass   // Leaf only
	bucket   []*particle.PointMass // Bucket only
	massPos  vmath.Vec2            // Σ m·position, Internal and Bucket
	mass     float64               // Σ m, Internal and Bucket
}

func (n *node) kind() Kind {
	switch {
	case n.children != noChildren:
		return KindInternal
	case len(n.bucket) > 0:
		return KindBucket
	case n.body != nil:
		return KindLeaf
	default:
		return KindEmpty
	}
}

// Tree is a Barnes-Hut quadtree rooted at a fixed rectangle
type Tree struct {
	params   Params
	nodes    []node
	inserted int
	dropped  int
	maxDepth int
}

// New creates a tree whose root is an Empty node covering the rectangle
// Every later insertion must lie within it
func New(topLeft, bottomRight vmath.Vec2, params Params) *Tree {
	t := &Tree{params: params}
	t.Reset(topLeft, bottomRight)
	return t
}

// Reset discards all nodes and re-roots the tree at a new Empty rectangle
// Particle references from the previous build are released
func (t *Tree) Reset(topLeft, bottomRight vmath.Vec2) {
	for i := range t.nodes {
		t.nodes[i] = node{}
	}
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, node{
		bounds:   vmath.NewRect(topLeft, bottomRight),
		children: noChildren,
	})
	t.inserted = 0
	t.dropped = 0
	t.maxDepth = 0
}

// Params returns the tunables the tree was built with
func (t *Tree) Params() Params {
	return t.params
}

// Bounds returns the root rectangle
func (t *Tree) Bounds() vmath.Rect {
	return t.nodes[0].bounds
}

// Insert adds one particle
// The reference is held until the next Reset; the particle must not move meanwhile
func (t *Tree) Insert(p *particle.PointMass) {
	if t.params.Strict && !t.nodes[0].bounds.Contains(p.Position) {
		panic(errors.Errorf("quadtree: insert at %v outside root %v..%v",
			p.Position, t.nodes[0].bounds.TopLeft, t.nodes[0].bounds.BottomRight))
	}
	t.insert(0, p)
}

// insert reports whether p was stored; ancestors aggregate p only when it was
func (t *Tree) insert(i int32, p *particle.PointMass) bool {
	n := &t.nodes[i]

	switch n.kind() {
	case KindEmpty:
		n.body = p
		t.inserted++
		return true

	case KindInternal:
		if !t.insert(n.children+quadrant(n.bounds.Center(), p.Position), p) {
			return false
		}
		// Recursion may grow the arena
		n = &t.nodes[i]
		n.massPos = n.massPos.Add(p.Position.Mul(p.Mass))
		n.mass += p.Mass
		return true

	case KindBucket:
		for _, b := range n.bucket {
			if vmath.NearlyEqual(b.Position, p.Position, t.params.DuplicateTolerance) {
				t.dropped++
				return false
			}
		}
		n.bucket = append(n.bucket, p)
		n.massPos = n.massPos.Add(p.Position.Mul(p.Mass))
		n.mass += p.Mass
		t.inserted++
		return true

	default: // KindLeaf
		// Coincident points would subdivide forever
		if vmath.NearlyEqual(n.body.Position, p.Position, t.params.DuplicateTolerance) {
			t.dropped++
			return false
		}

		if t.params.MaxDepth > 0 && int(n.depth) >= t.params.MaxDepth {
			prev := n.body
			n.body = nil
			n.bucket = []*particle.PointMass{prev, p}
			n.massPos = prev.Position.Mul(prev.Mass).Add(p.Position.Mul(p.Mass))
			n.mass = prev.Mass + p.Mass
			t.inserted++
			return true
		}

		prev := n.body
		n.body = nil
		n.massPos = vmath.Vec2{}
		n.mass = 0
		t.subdivide(i)
		// prev is counted again on reinsertion
		t.inserted--
		t.insert(i, prev)
		return t.insert(i, p)
	}
}

// subdivide appends four Empty children; invalidates node pointers into the arena
func (t *Tree) subdivide(i int32) {
	quads := t.nodes[i].bounds.Quadrants()
	depth := t.nodes[i].depth + 1
	first := int32(len(t.nodes))
	for _, q := range quads {
		t.nodes = append(t.nodes, node{bounds: q, children: noChildren, depth: depth})
	}
	t.nodes[i].children = first
	if int(depth) > t.maxDepth {
		t.maxDepth = int(depth)
	}
}

// quadrant selects the child offset: column 1 when right of mid, row 1 when below mid
// Y decreases downward, so y < mid.Y is the bottom row
func quadrant(mid, pos vmath.Vec2) int32 {
	var q int32
	if pos[0] > mid[0] {
		q |= 1
	}
	if pos[1] < mid[1] {
		q |= 2
	}
	return q
}

// QueryForce accumulates the gravitational pull of the tree on p into p.Force
// g is the gravitational constant; the tree itself is not modified
func (t *Tree) QueryForce(p *particle.PointMass, g float64) {
	t.queryForce(0, p, g)
}

func (t *Tree) queryForce(i int32, p *particle.PointMass, g float64) {
	n := &t.nodes[i]

	switch n.kind() {
	case KindInternal:
		com := n.massPos.Mul(1 / n.mass)
		diff := com.Sub(p.Position)
		d2 := diff.LenSqr()
		w := n.bounds.TopLeft[0] - n.bounds.BottomRight[0]

		// Node too wide for its distance: open it
		if w*w >= t.params.OpeningFactor*d2 {
			for c := n.children; c < n.children+4; c++ {
				t.queryForce(c, p, g)
			}
			return
		}

		force := g * p.Mass * n.mass / d2
		d := math.Sqrt(d2)
		if d > t.params.FarFieldEpsilon {
			p.Force = p.Force.Add(diff.Mul(force / d))
		}

	case KindLeaf:
		t.pairForce(n.body, p, g)

	case KindBucket:
		for _, b := range n.bucket {
			t.pairForce(b, p, g)
		}
	}
}

// pairForce adds the exact pull of src on p, skipped inside the near-field floor
func (t *Tree) pairForce(src, p *particle.PointMass, g float64) {
	diff := src.Position.Sub(p.Position)
	d2 := diff.LenSqr()
	force := g * p.Mass * src.Mass / d2
	d := math.Sqrt(d2)
	if d > t.params.NearFieldFloor {
		p.Force = p.Force.Add(diff.Mul(force / d))
	}
}
