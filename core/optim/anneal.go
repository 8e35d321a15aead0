package optim

import (
	"math"
	"math/rand/v2"
)

// Annealing temperature schedule: geometric decay over the full iteration
// budget. The start temperature is on the scale of day-unit errors, the end
// temperature low enough that the walk degrades to pure descent.
const (
	annealTempStart = 10.0
	annealTempEnd   = 1e-3
)

// anneal runs a single Metropolis chain with a geometric cooling schedule.
// Proposals are Gaussian steps scaled per dimension by StepScale times the
// bound span, reflected back into the box. The returned point is the best
// ever evaluated, not the final chain position.
func anneal(track *capture, b box, ctrl Control) (Outcome, error) {
	rng := rand.New(ctrl.source())

	cur := b.uniformFree(rng)
	curV := track.eval(b.embed(cur))
	if track.err != nil {
		return nil, track.err
	}

	spans := b.spanFree()
	cand := make([]float64, len(cur))
	decay := math.Pow(annealTempEnd/annealTempStart, 1/float64(ctrl.MaxIterations))
	temp := annealTempStart

	for i := 0; i < ctrl.MaxIterations; i++ {
		for j := range cand {
			cand[j] = cur[j] + rng.NormFloat64()*ctrl.StepScale*spans[j]
		}
		b.reflectFree(cand)

		v := track.eval(b.embed(cand))
		if track.err != nil {
			return nil, track.err
		}
		if v <= curV || rng.Float64() < math.Exp(-(v-curV)/temp) {
			copy(cur, cand)
			curV = v
		}
		temp *= decay
	}

	params, value, err := track.best()
	if err != nil {
		return nil, err
	}
	return PointOutcome{Params: params, Value: value, Evals: track.evals}, nil
}
