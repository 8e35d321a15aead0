package optim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/samplemv"
)

// boltzmann is the sampling target: a flat prior over the box times a
// Gaussian pseudo-likelihood in the cost, exp(-(cost/scale)^2/2). Proposals
// outside the box score log-probability -Inf and are never evaluated.
type boltzmann struct {
	track *capture
	b     box
	scale float64
}

// LogProb implements distmv.LogProber over the free dimensions.
func (t boltzmann) LogProb(zFree []float64) float64 {
	if !t.b.containsFree(zFree) {
		return math.Inf(-1)
	}
	cost := t.track.eval(t.b.embed(zFree))
	if t.track.err != nil {
		return math.Inf(-1)
	}
	r := cost / t.scale
	return -0.5 * r * r
}

// bayes samples the box with a random-walk Metropolis-Hastings chain and
// returns both the retained chain and the lowest-cost point evaluated
// anywhere in the run, burn-in included. Proposal steps are independent
// Gaussians scaled per dimension by StepScale times the bound span.
func bayes(track *capture, b box, ctrl Control) (Outcome, error) {
	src := ctrl.source()
	nf := b.nFree()

	sigma := mat.NewSymDense(nf, nil)
	for j, span := range b.spanFree() {
		step := ctrl.StepScale * span
		sigma.SetSym(j, j, step*step)
	}
	proposal, ok := samplemv.NewProposalNormal(sigma, src)
	if !ok {
		return nil, errors.New("optim: proposal covariance is not positive definite")
	}

	sampler := samplemv.MetropolisHastingser{
		Initial:  b.uniformFree(src),
		Target:   boltzmann{track: track, b: b, scale: ctrl.NoiseSD},
		Proposal: proposal,
		Src:      src,
		BurnIn:   ctrl.BurnIn,
		Rate:     1,
	}

	batch := mat.NewDense(ctrl.Samples, nf, nil)
	sampler.Sample(batch)
	if track.err != nil {
		return nil, track.err
	}

	chain := make([][]float64, ctrl.Samples)
	accepted := 0
	var prev []float64
	for r := 0; r < ctrl.Samples; r++ {
		row := mat.Row(nil, r, batch)
		if prev != nil && !floats.Equal(row, prev) {
			accepted++
		}
		prev = row
		chain[r] = b.embed(row)
	}

	params, value, err := track.best()
	if err != nil {
		return nil, err
	}
	return PosteriorOutcome{
		Params:   params,
		Value:    value,
		Evals:    track.evals,
		Chain:    chain,
		Accepted: accepted,
	}, nil
}
