package schema

import "time"

// FittedParam pairs one fitted value with the interval it was searched in.
type FittedParam struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// AICcRecord carries the information-criterion pieces of one fit.
type AICcRecord struct {
	AIC  float64 `json:"aic"`
	AICc float64 `json:"aicc"` // AIC plus the small-sample correction 2k(k+1)/(n-k-1)
	K    int     `json:"k"`    // Fitted parameter count
	N    int     `json:"n"`    // Valid records used
}

// CalibrationResult is the outcome of one calibration run. It is built once
// per run and never mutated afterwards.
type CalibrationResult struct {
	Model       string        `json:"model"`
	Method      string        `json:"method"`
	Params      []FittedParam `json:"params"`
	RMSE        float64       `json:"rmse"`
	NullRMSE    float64       `json:"null_rmse"` // Error of the constant mean-of-observed predictor
	AICc        AICcRecord    `json:"aicc"`
	Predicted   []float64     `json:"predicted"` // One prediction per dataset record, in record order
	Evaluations int           `json:"evaluations"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// ParamValues returns the fitted values in parameter order.
func (r *CalibrationResult) ParamValues() []float64 {
	values := make([]float64, len(r.Params))
	for i, p := range r.Params {
		values[i] = p.Value
	}
	return values
}

// Skill returns NullRMSE minus RMSE. Positive skill means the fitted model
// beats the constant mean-of-observed predictor.
func (r *CalibrationResult) Skill() float64 {
	return r.NullRMSE - r.RMSE
}
