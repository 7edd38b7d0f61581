package vmath

// Rect is an axis-aligned rectangle in world space
// Y decreases from TopLeft to BottomRight: TopLeft.Y() > BottomRight.Y()
type Rect struct {
	TopLeft     Vec2
	BottomRight Vec2
}

// NewRect constructs a Rect from its corners
func NewRect(topLeft, bottomRight Vec2) Rect {
	return Rect{TopLeft: topLeft, BottomRight: bottomRight}
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Vec2 {
	return Midpoint(r.TopLeft, r.BottomRight)
}

// Width returns the horizontal edge length
func (r Rect) Width() float64 {
	return r.BottomRight[0] - r.TopLeft[0]
}

// Height returns the vertical edge length
func (r Rect) Height() float64 {
	return r.TopLeft[1] - r.BottomRight[1]
}

// Contains checks if point is within rect, edges inclusive
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.TopLeft[0] && p[0] <= r.BottomRight[0] &&
		p[1] <= r.TopLeft[1] && p[1] >= r.BottomRight[1]
}

// Quadrants splits the rect at its center
// Order: top-left, top-right, bottom-left, bottom-right
func (r Rect) Quadrants() [4]Rect {
	mid := r.Center()
	tl, br := r.TopLeft, r.BottomRight
	return [4]Rect{
		{TopLeft: tl, BottomRight: mid},
		{TopLeft: Vec2{mid[0], tl[1]}, BottomRight: Vec2{br[0], mid[1]}},
		{TopLeft: Vec2{tl[0], mid[1]}, BottomRight: Vec2{mid[0], br[1]}},
		{TopLeft: mid, BottomRight: br},
	}
}

// RandomPoint returns a uniform random point within rect using provided RNG
func (r Rect) RandomPoint(rng *FastRand) Vec2 {
	return Vec2{
		rng.Range(r.TopLeft[0], r.BottomRight[0]),
		rng.Range(r.BottomRight[1], r.TopLeft[1]),
	}
}
