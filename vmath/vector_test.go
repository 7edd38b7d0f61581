package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDivZeroSafe verifies division by zero yields the zero vector
func TestDivZeroSafe(t *testing.T) {
	assert.Equal(t, Vec2{}, Div(V2(3, 4), 0))
	assert.Equal(t, V2(1.5, 2), Div(V2(3, 4), 2))
}

// TestNormalize2 verifies unit length and the zero vector case
func TestNormalize2(t *testing.T) {
	n := Normalize2(V2(3, 4))
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)

	z := Normalize2(Vec2{})
	assert.False(t, math.IsNaN(z[0]) || math.IsNaN(z[1]), "Expected no NaN for zero vector")
	assert.Equal(t, Vec2{}, z)
}

// TestDistances verifies Dist and DistSq agree with the mgl64 methods
func TestDistances(t *testing.T) {
	a, b := V2(1, 1), V2(4, 5)
	assert.Equal(t, 25.0, DistSq(a, b))
	assert.Equal(t, 5.0, Dist(a, b))
	assert.InDelta(t, b.Sub(a).Len(), Dist(a, b), 1e-12)
}

// TestCrossAndPerpendicular verifies orientation helpers
func TestCrossAndPerpendicular(t *testing.T) {
	x := V2(1, 0)
	y := Perpendicular(x)
	assert.Equal(t, V2(0, 1), y)
	assert.Equal(t, 1.0, Cross2(x, y))
	assert.Equal(t, -1.0, Cross2(y, x))
	assert.Equal(t, 0.0, x.Dot(y))
}

// TestNearlyEqual verifies the per-axis tolerance is exclusive
func TestNearlyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		tol  float64
		want bool
	}{
		{"identical", V2(1, 1), V2(1, 1), 1e-4, true},
		{"within", V2(1, 1), V2(1.00005, 0.99995), 1e-4, true},
		{"x outside", V2(1, 1), V2(1.001, 1), 1e-4, false},
		{"y outside", V2(1, 1), V2(1, 1.001), 1e-4, false},
		{"zero tolerance", V2(1, 1), V2(1, 1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearlyEqual(tt.a, tt.b, tt.tol))
		})
	}
}

// TestFastRandRange verifies determinism and bounds of the xorshift generator
func TestFastRandRange(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for i := 0; i < 1000; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("Expected identical sequences, diverged at %d", i)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Expected [0,1), got %f", va)
		}
		if n := a.Intn(7); n < 0 || n >= 7 {
			t.Fatalf("Expected [0,7), got %d", n)
		}
		b.Intn(7)
	}

	zero := NewFastRand(0)
	assert.NotEqual(t, uint64(0), zero.Next(), "seed 0 must not lock the generator at zero")
}

// TestClamp verifies scalar clamping
func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}
