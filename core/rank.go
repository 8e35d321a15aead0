package core

import (
	"sort"

	"github.com/phenolab/phenocal/schema"
)

// RankCalibrations sorts calibration results best fit first: ascending AICc,
// with RMSE breaking ties between models of equal information score. The
// slice is sorted in place and returned for chaining.
func RankCalibrations(results []*schema.CalibrationResult) []*schema.CalibrationResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AICc.AICc != results[j].AICc.AICc {
			return results[i].AICc.AICc < results[j].AICc.AICc
		}
		return results[i].RMSE < results[j].RMSE
	})
	return results
}
