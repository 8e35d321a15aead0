// Package models is the phenology model catalog: a registry of named spring
// transition-date models sharing one evaluator contract.
//
// Every model maps an ordered parameter vector plus one site-year driver
// series to a predicted transition date in day-of-year units. Records whose
// forcing never satisfies the model requirement predict [FarFuture], a
// deliberately absurd late date that keeps such fits measurably bad instead
// of silently dropped.
package models

import (
	"errors"
	"fmt"

	"github.com/phenolab/phenocal/schema"
)

// FarFuture is the prediction for records whose requirement is never met
// within the driver series.
const FarFuture = 9999

// Sentinel errors for model resolution and evaluation.
var (
	ErrUnknownModel = errors.New("models: unknown model identifier")
	ErrParamCount   = errors.New("models: parameter count mismatch")
	ErrDrivers      = errors.New("models: unusable driver series")
)

// Model is the evaluator contract every catalog entry satisfies.
type Model interface {
	// Name returns the catalog identifier, e.g. "TT".
	Name() string

	// ParamNames returns the ordered parameter names. Its length fixes the
	// arity Predict accepts.
	ParamNames() []string

	// Predict maps a parameter vector to one prediction per dataset record,
	// in record order. It fails on arity mismatch or unusable drivers and
	// never mutates the dataset.
	Predict(params []float64, ds *schema.Dataset) ([]float64, error)
}

// catalog fixes the presentation order: simplest first.
var catalog = []Model{
	LIN{},
	TT{},
	TTS{},
	PTT{},
	M1{},
	SQ{},
	AT{},
}

var registry = func() map[string]Model {
	m := make(map[string]Model, len(catalog))
	for _, entry := range catalog {
		m[entry.Name()] = entry
	}
	return m
}()

// Get resolves a model identifier against the registry.
func Get(name string) (Model, error) {
	model, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return model, nil
}

// All returns the catalog in presentation order.
func All() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the catalog identifiers in presentation order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name()
	}
	return names
}

// checkArity validates the parameter vector length for a model.
func checkArity(m Model, params []float64) error {
	want := len(m.ParamNames())
	if len(params) != want {
		return fmt.Errorf("%w: %s wants %d parameters, got %d", ErrParamCount, m.Name(), want, len(params))
	}
	return nil
}
