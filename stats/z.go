package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent.
func ZVal(confidence float64) float64 {
	area := (1 + confidence/100) / 2
	return distuv.UnitNormal.Quantile(area)
}
