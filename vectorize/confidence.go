package vectorize

import (
	"gonum.org/v1/gonum/stat"
)

// MeanConfidence 区域内像素的平均概率，没有概率图时为 1.0
func MeanConfidence(p *ProbabilityMap, footprint []int) float64 {
	if p == nil || len(footprint) == 0 {
		return 1.0
	}

	values := make([]float64, 0, len(footprint))
	for _, idx := range footprint {
		if idx < 0 || idx >= len(p.Prob) {
			continue
		}
		values = append(values, float64(p.Prob[idx]))
	}
	if len(values) == 0 {
		return 1.0
	}

	return stat.Mean(values, nil)
}
