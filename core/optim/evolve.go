package optim

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// polishEvaluations bounds the simplex refinement pass.
const polishEvaluations = 500

// evolve runs CMA-ES over an unconstrained reparameterization of the box: a
// per-dimension logistic squash keeps every evaluated point feasible without
// rejection, and the population start is the box midpoint. With
// Control.Polish the best point is refined by a short Nelder-Mead pass in
// the same squashed space.
func evolve(track *capture, b box, ctrl Control) (Outcome, error) {
	problem := optimize.Problem{
		Func: func(u []float64) float64 {
			return track.eval(b.embed(b.fromUnbounded(u)))
		},
	}

	u0 := make([]float64, b.nFree()) // midpoint of the box after the squash

	settings := &optimize.Settings{FuncEvaluations: ctrl.MaxEvaluations}
	method := &optimize.CmaEsChol{
		InitStepSize: 2,
		Population:   ctrl.PopulationSize,
		Src:          ctrl.source(),
	}

	result, err := optimize.Minimize(problem, u0, settings, method)
	if track.err != nil {
		return nil, track.err
	}
	if err != nil {
		return nil, fmt.Errorf("evolve: %w", err)
	}
	if serr := statusErr(result.Status); serr != nil {
		return nil, fmt.Errorf("evolve: %w", serr)
	}

	if ctrl.Polish {
		if err := polish(track, b); err != nil {
			return nil, err
		}
	}

	params, value, err := track.best()
	if err != nil {
		return nil, err
	}
	return PointOutcome{Params: params, Value: value, Evals: track.evals}, nil
}

// polish refines the tracked best point with a bounded Nelder-Mead pass.
func polish(track *capture, b box) error {
	params, _, err := track.best()
	if err != nil {
		return err
	}
	// Project the full-space best back onto the free dimensions.
	zFree := make([]float64, b.nFree())
	for j, i := range b.free {
		zFree[j] = params[i]
	}

	problem := optimize.Problem{
		Func: func(u []float64) float64 {
			return track.eval(b.embed(b.fromUnbounded(u)))
		},
	}
	settings := &optimize.Settings{FuncEvaluations: polishEvaluations}

	result, err := optimize.Minimize(problem, b.toUnbounded(zFree), settings, &optimize.NelderMead{})
	if track.err != nil {
		return track.err
	}
	if err != nil {
		return fmt.Errorf("polish: %w", err)
	}
	if serr := statusErr(result.Status); serr != nil {
		return fmt.Errorf("polish: %w", serr)
	}
	return nil
}

// statusErr filters termination statuses: budget exhaustion is an expected
// way for a global search to stop, everything else error-worthy stays one.
func statusErr(status optimize.Status) error {
	switch status {
	case optimize.FunctionEvaluationLimit, optimize.IterationLimit, optimize.RuntimeLimit:
		return nil
	}
	return status.Err()
}
