package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bikepulse/pkg/contracts/domain"
)

// whiskerFactor is the Tukey fence multiplier applied to the interquartile range
const whiskerFactor = 1.5

// Summarize computes the five-number summary, mean, whiskers and outliers of values.
// values keeps its order in the returned Box.
func Summarize(category string, values []float64) domain.Box {
	box := domain.Box{
		Category: category,
		Values:   append(make([]float64, 0, len(values)), values...),
		Count:    len(values),
		Outliers: []float64{},
	}
	if len(values) == 0 {
		return box
	}

	sorted := append(make([]float64, 0, len(values)), values...)
	sort.Float64s(sorted)

	box.Min = floats.Min(sorted)
	box.Max = floats.Max(sorted)
	box.Mean = stat.Mean(sorted, nil)
	box.Q1 = quantile(sorted, 0.25)
	box.Median = quantile(sorted, 0.5)
	box.Q3 = quantile(sorted, 0.75)

	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - whiskerFactor*iqr
	highFence := box.Q3 + whiskerFactor*iqr

	box.LowerWhisker = box.Max
	box.UpperWhisker = box.Min
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerWhisker = math.Min(box.LowerWhisker, v)
		box.UpperWhisker = math.Max(box.UpperWhisker, v)
	}
	return box
}

// quantile interpolates linearly between closest ranks of sorted (R type 7)
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
