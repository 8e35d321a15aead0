package optim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// box is a validated rectangular search region. Dimensions whose lower and
// upper bounds coincide are pinned: strategies search only the free
// dimensions and pinned values are filled back in on the way out.
type box struct {
	lower []float64
	upper []float64
	free  []int // indices with positive span
}

func newBox(lower, upper []float64) (box, error) {
	if len(lower) != len(upper) {
		return box{}, fmt.Errorf("%w: %d vs %d", ErrBoundsMismatch, len(lower), len(upper))
	}
	if len(lower) == 0 {
		return box{}, ErrEmptyBounds
	}
	b := box{lower: lower, upper: upper}
	for i := range lower {
		lo, hi := lower[i], upper[i]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return box{}, fmt.Errorf("%w: dimension %d is not finite", ErrInvalidBounds, i)
		}
		if lo > hi {
			return box{}, fmt.Errorf("%w: dimension %d has lower %g above upper %g", ErrInvalidBounds, i, lo, hi)
		}
		if lo < hi {
			b.free = append(b.free, i)
		}
	}
	return b, nil
}

func (b box) dim() int        { return len(b.lower) }
func (b box) nFree() int      { return len(b.free) }
func (b box) allPinned() bool { return len(b.free) == 0 }

// embed expands a free-dimension vector to full parameter space, with pinned
// dimensions at their fixed value. A nil argument embeds the empty vector.
func (b box) embed(zFree []float64) []float64 {
	x := make([]float64, b.dim())
	copy(x, b.lower)
	for j, i := range b.free {
		x[i] = zFree[j]
	}
	return x
}

// spanFree returns the widths of the free dimensions.
func (b box) spanFree() []float64 {
	spans := make([]float64, len(b.free))
	for j, i := range b.free {
		spans[j] = b.upper[i] - b.lower[i]
	}
	return spans
}

// uniformFree draws one point uniformly over the free dimensions.
func (b box) uniformFree(src rand.Source) []float64 {
	bnds := make([]r1.Interval, len(b.free))
	for j, i := range b.free {
		bnds[j] = r1.Interval{Min: b.lower[i], Max: b.upper[i]}
	}
	return distmv.NewUniform(bnds, src).Rand(nil)
}

// containsFree reports whether a free-dimension point is inside the box.
func (b box) containsFree(zFree []float64) bool {
	for j, i := range b.free {
		if zFree[j] < b.lower[i] || zFree[j] > b.upper[i] {
			return false
		}
	}
	return true
}

// contains validates a full-space point against the box, inclusive.
func (b box) contains(x []float64) error {
	if len(x) != b.dim() {
		return fmt.Errorf("%w: got %d dimensions, want %d", ErrConstraintViolation, len(x), b.dim())
	}
	for i := range x {
		if x[i] < b.lower[i] || x[i] > b.upper[i] || math.IsNaN(x[i]) {
			return fmt.Errorf("%w: dimension %d value %g outside [%g, %g]",
				ErrConstraintViolation, i, x[i], b.lower[i], b.upper[i])
		}
	}
	return nil
}

// reflectFree folds a free-dimension point back into the box, mirroring at
// whichever bound it crossed. Steps larger than the span degrade to a clamp.
func (b box) reflectFree(zFree []float64) {
	for j, i := range b.free {
		lo, hi := b.lower[i], b.upper[i]
		z := zFree[j]
		if z < lo {
			z = lo + (lo - z)
		} else if z > hi {
			z = hi - (z - hi)
		}
		zFree[j] = math.Min(hi, math.Max(lo, z))
	}
}

// ratioEps keeps logit arguments strictly inside (0, 1).
const ratioEps = 1e-12

// fromUnbounded maps an unconstrained vector into the box through a logistic
// squash, one coordinate per free dimension.
func (b box) fromUnbounded(u []float64) []float64 {
	z := make([]float64, len(b.free))
	for j, i := range b.free {
		lo, hi := b.lower[i], b.upper[i]
		z[j] = lo + (hi-lo)/(1+math.Exp(-u[j]))
	}
	return z
}

// toUnbounded inverts the logistic squash for a free-dimension point,
// nudging boundary values inward so the logit stays finite.
func (b box) toUnbounded(zFree []float64) []float64 {
	u := make([]float64, len(b.free))
	for j, i := range b.free {
		lo, hi := b.lower[i], b.upper[i]
		ratio := (zFree[j] - lo) / (hi - lo)
		ratio = math.Min(1-ratioEps, math.Max(ratioEps, ratio))
		u[j] = math.Log(ratio / (1 - ratio))
	}
	return u
}
