// Package optim adapts three black-box minimization strategies behind one
// bounded entry point.
//
// [Minimize] searches a rectangular box for the parameter vector with the
// lowest objective value. The strategies differ in how they spend their
// budget: [MethodAnneal] walks a single cooling chain, [MethodEvolve] runs a
// CMA-ES population with an optional simplex polish, and [MethodBayes]
// samples a posterior over the box and keeps the whole chain for diagnostics.
// All of them only ever evaluate points inside the box, and every returned
// vector is revalidated against the box before it reaches the caller.
package optim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Objective is a deterministic cost function over a parameter vector. An
// error marks the objective itself as broken; no strategy retries after one.
type Objective func(params []float64) (float64, error)

// Method identifies an optimization strategy.
type Method string

// All optimizer methods supported.
const (
	MethodAnneal Method = "anneal" // simulated annealing, default
	MethodEvolve Method = "evolve" // CMA-ES evolutionary strategy
	MethodBayes  Method = "bayes"  // Metropolis-Hastings posterior sampling
)

// AllMethods returns a list of all supported methods.
var AllMethods = []Method{MethodAnneal, MethodEvolve, MethodBayes}

// ValidMethods lists all valid optimizer methods.
var ValidMethods = map[Method]struct{}{
	MethodAnneal: {},
	MethodEvolve: {},
	MethodBayes:  {},
}

// Sentinel errors for precondition and postcondition failures.
var (
	ErrUnknownMethod       = errors.New("optim: unknown optimizer method")
	ErrNilObjective        = errors.New("optim: nil objective")
	ErrBoundsMismatch      = errors.New("optim: lower and upper bounds differ in length")
	ErrEmptyBounds         = errors.New("optim: empty bounds")
	ErrInvalidBounds       = errors.New("optim: lower bound above upper bound")
	ErrConstraintViolation = errors.New("optim: result outside the bounds box")
)

// Control tunes a [Minimize] run. The zero value asks for per-method
// defaults, so callers set only what they care about.
type Control struct {
	MaxIterations  int     // anneal: cooling steps (default 20000)
	MaxEvaluations int     // evolve: objective evaluation budget (default 10000)
	PopulationSize int     // evolve: CMA-ES population size (default lets the backend pick)
	Samples        int     // bayes: retained posterior samples (default 4000)
	BurnIn         int     // bayes: leading samples discarded before retention (default 1000)
	StepScale      float64 // anneal/bayes: proposal scale as a fraction of each bound span (default 0.1)
	NoiseSD        float64 // bayes: cost scale of the posterior exp(-(cost/NoiseSD)^2/2) (default 5)
	Seed           uint64  // reproducibility; 0 seeds from process entropy
	Polish         bool    // evolve: refine the best point with a local simplex pass
}

// Default budgets. Sampling needs a materially larger budget than the point
// methods to say anything useful about the posterior.
const (
	defaultIterations  = 20000
	defaultEvaluations = 10000
	defaultSamples     = 4000
	defaultBurnIn      = 1000
	defaultStepScale   = 0.1
	defaultNoiseSD     = 5.0
)

func (c Control) withDefaults() Control {
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultIterations
	}
	if c.MaxEvaluations <= 0 {
		c.MaxEvaluations = defaultEvaluations
	}
	if c.Samples <= 0 {
		c.Samples = defaultSamples
	}
	if c.BurnIn <= 0 {
		c.BurnIn = defaultBurnIn
	}
	if c.StepScale <= 0 {
		c.StepScale = defaultStepScale
	}
	if c.NoiseSD <= 0 {
		c.NoiseSD = defaultNoiseSD
	}
	return c
}

// source builds the run RNG source. Seeded runs repeat exactly.
func (c Control) source() rand.Source {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Outcome is the closed set of optimizer outcomes. Point strategies return
// [PointOutcome]; sampling strategies return [PosteriorOutcome]. Callers that
// only need the minimizer use the shared accessors, and callers that need
// diagnostics type-switch on the concrete variant.
type Outcome interface {
	// Best returns the feasible minimizer.
	Best() []float64

	// Objective returns the objective value at Best.
	Objective() float64

	// Evaluations returns the objective evaluations spent.
	Evaluations() int

	sealed()
}

// PointOutcome is the outcome of a point-estimate strategy.
type PointOutcome struct {
	Params []float64
	Value  float64
	Evals  int
}

// Best implements [Outcome].
func (o PointOutcome) Best() []float64 { return o.Params }

// Objective implements [Outcome].
func (o PointOutcome) Objective() float64 { return o.Value }

// Evaluations implements [Outcome].
func (o PointOutcome) Evaluations() int { return o.Evals }

func (o PointOutcome) sealed() {}

// PosteriorOutcome is the outcome of a sampling strategy: the lowest-cost
// point evaluated anywhere in the run, plus the retained chain behind it.
type PosteriorOutcome struct {
	Params   []float64
	Value    float64
	Evals    int
	Chain    [][]float64 // Post-burn-in samples in full parameter space, in order
	Accepted int         // Accepted moves within the retained chain
}

// Best implements [Outcome].
func (o PosteriorOutcome) Best() []float64 { return o.Params }

// Objective implements [Outcome].
func (o PosteriorOutcome) Objective() float64 { return o.Value }

// Evaluations implements [Outcome].
func (o PosteriorOutcome) Evaluations() int { return o.Evals }

func (o PosteriorOutcome) sealed() {}

// AcceptRate returns the fraction of retained samples that moved.
func (o PosteriorOutcome) AcceptRate() float64 {
	if len(o.Chain) == 0 {
		return 0
	}
	return float64(o.Accepted) / float64(len(o.Chain))
}

// Result pairs an outcome with the method that produced it.
type Result struct {
	Method  Method
	Outcome Outcome
}

// Minimize searches the box [lower, upper] for the minimum of obj using the
// given method. Bounds are inclusive; dimensions with equal lower and upper
// bounds are pinned to that value and excluded from the search. When every
// dimension is pinned the objective is evaluated once at the pinned point
// and no strategy runs.
func Minimize(obj Objective, lower, upper []float64, method Method, ctrl Control) (Result, error) {
	if _, ok := ValidMethods[method]; !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if obj == nil {
		return Result{}, ErrNilObjective
	}
	b, err := newBox(lower, upper)
	if err != nil {
		return Result{}, err
	}
	ctrl = ctrl.withDefaults()

	if b.allPinned() {
		pinned := b.embed(nil)
		value, err := obj(pinned)
		if err != nil {
			return Result{}, fmt.Errorf("evaluating pinned point: %w", err)
		}
		return Result{Method: method, Outcome: PointOutcome{Params: pinned, Value: value, Evals: 1}}, nil
	}

	track := newCapture(obj)
	var out Outcome
	switch method {
	case MethodAnneal:
		out, err = anneal(track, b, ctrl)
	case MethodEvolve:
		out, err = evolve(track, b, ctrl)
	case MethodBayes:
		out, err = bayes(track, b, ctrl)
	}
	if err != nil {
		return Result{}, err
	}
	if err := b.contains(out.Best()); err != nil {
		return Result{}, err
	}
	return Result{Method: method, Outcome: out}, nil
}

// capture wraps an objective with evaluation counting, best-point tracking
// and sticky error capture, so strategies built on libraries without error
// returns still propagate the first failure instead of retrying it.
type capture struct {
	obj   Objective
	err   error
	evals int
	bestX []float64
	bestV float64
}

func newCapture(obj Objective) *capture {
	return &capture{obj: obj, bestV: math.Inf(1)}
}

// eval scores a full-space point. After the first objective error every call
// returns +Inf without touching the objective again.
func (c *capture) eval(x []float64) float64 {
	if c.err != nil {
		return math.Inf(1)
	}
	v, err := c.obj(x)
	c.evals++
	if err != nil {
		c.err = err
		return math.Inf(1)
	}
	if v < c.bestV {
		c.bestV = v
		c.bestX = append(c.bestX[:0], x...)
	}
	return v
}

// best returns the lowest-cost point seen, or an error when no evaluation
// ever succeeded.
func (c *capture) best() ([]float64, float64, error) {
	if c.err != nil {
		return nil, 0, c.err
	}
	if c.bestX == nil {
		return nil, 0, errors.New("optim: no successful objective evaluation")
	}
	out := make([]float64, len(c.bestX))
	copy(out, c.bestX)
	return out, c.bestV, nil
}
