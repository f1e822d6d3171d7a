package axis

import (
	"fmt"
	"math"
)

// Axis is an immutable sequence of strictly increasing bin edges.
// An axis with N bins has N+1 edges.
type Axis struct {
	edges []float64
}

// FromEdges creates an axis from explicit bin edges.
// Edges must be finite and strictly increasing, with at least two entries.
// The slice is copied; the caller keeps ownership of its argument.
func FromEdges(edges []float64) (*Axis, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("axis needs at least 2 edges, got %d", len(edges))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, fmt.Errorf("axis edge %d is not finite: %v", i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return nil, fmt.Errorf("axis edges must be strictly increasing: edge %d (%v) <= edge %d (%v)", i, e, i-1, edges[i-1])
		}
	}
	a := &Axis{edges: make([]float64, len(edges))}
	copy(a.edges, edges)
	return a, nil
}

// EqualLogSpacing creates an axis with n logarithmically spaced bins
// between min and max. Both bounds must be positive.
func EqualLogSpacing(min, max float64, n int) (*Axis, error) {
	if n <= 0 {
		return nil, fmt.Errorf("axis needs a positive bin count, got %d", n)
	}
	if min <= 0 || max <= min {
		return nil, fmt.Errorf("log axis needs 0 < min < max, got [%v, %v]", min, max)
	}
	edges := make([]float64, n+1)
	logMin := math.Log10(min)
	step := (math.Log10(max) - logMin) / float64(n)
	for i := range edges {
		edges[i] = math.Pow(10, logMin+float64(i)*step)
	}
	// Pin the bounds so round-trips through log10 cannot move them.
	edges[0] = min
	edges[n] = max
	return &Axis{edges: edges}, nil
}

// Linear creates an axis with n equally spaced bins between min and max.
func Linear(min, max float64, n int) (*Axis, error) {
	if n <= 0 {
		return nil, fmt.Errorf("axis needs a positive bin count, got %d", n)
	}
	if max <= min {
		return nil, fmt.Errorf("axis needs min < max, got [%v, %v]", min, max)
	}
	edges := make([]float64, n+1)
	step := (max - min) / float64(n)
	for i := range edges {
		edges[i] = min + float64(i)*step
	}
	edges[n] = max
	return &Axis{edges: edges}, nil
}

// NBins returns the number of bins.
func (a *Axis) NBins() int {
	return len(a.edges) - 1
}

// Edges returns a copy of the bin edges.
func (a *Axis) Edges() []float64 {
	out := make([]float64, len(a.edges))
	copy(out, a.edges)
	return out
}

// LowerEdge returns the lower edge of bin i.
func (a *Axis) LowerEdge(i int) float64 {
	return a.edges[i]
}

// UpperEdge returns the upper edge of bin i.
func (a *Axis) UpperEdge(i int) float64 {
	return a.edges[i+1]
}

// Center returns the arithmetic midpoint of bin i.
func (a *Axis) Center(i int) float64 {
	return 0.5 * (a.edges[i] + a.edges[i+1])
}

// LogCenter returns the logarithmic midpoint of bin i.
// Only meaningful for axes with positive edges.
func (a *Axis) LogCenter(i int) float64 {
	return math.Sqrt(a.edges[i] * a.edges[i+1])
}

// Width returns the width of bin i.
func (a *Axis) Width(i int) float64 {
	return a.edges[i+1] - a.edges[i]
}

// Min returns the lowest edge.
func (a *Axis) Min() float64 {
	return a.edges[0]
}

// Max returns the highest edge.
func (a *Axis) Max() float64 {
	return a.edges[len(a.edges)-1]
}

// Find returns the index of the bin containing v, using [lower, upper)
// intervals. Returns -1 when v is outside the axis (including v == Max).
func (a *Axis) Find(v float64) int {
	if math.IsNaN(v) || v < a.edges[0] || v >= a.edges[len(a.edges)-1] {
		return -1
	}
	// Binary search over edges: find the rightmost edge <= v.
	lo, hi := 0, len(a.edges)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if v >= a.edges[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Equal reports whether two axes have exactly the same edges.
func (a *Axis) Equal(b *Axis) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.edges) != len(b.edges) {
		return false
	}
	for i := range a.edges {
		if a.edges[i] != b.edges[i] {
			return false
		}
	}
	return true
}

// String renders the axis as "[min, max] (N bins)".
func (a *Axis) String() string {
	return fmt.Sprintf("[%g, %g] (%d bins)", a.Min(), a.Max(), a.NBins())
}
