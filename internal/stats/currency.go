// Package stats computes descriptive valuation statistics for the analytics
// views, grouped by currency.
package stats

import (
	"math"
	"sort"

	"github.com/curiocollect/curio/internal/model"
)

// Stats holds the descriptive statistics for one currency group.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// ByCurrency groups items with a positive valuation by currency code and
// computes per-group statistics. Deleted items and items with a zero,
// missing, or negative valuation are excluded entirely rather than counted
// as zero-valued members of a group.
func ByCurrency(items []model.Item) map[string]Stats {
	groups := make(map[string][]float64)
	for _, item := range items {
		if item.Deleted || item.Valuation == nil || *item.Valuation <= 0 {
			continue
		}
		groups[item.Currency] = append(groups[item.Currency], *item.Valuation)
	}

	out := make(map[string]Stats, len(groups))
	for currency, values := range groups {
		out[currency] = describe(values)
	}
	return out
}

func describe(values []float64) Stats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	mean := total / float64(len(sorted))

	var sqSum float64
	for _, v := range sorted {
		d := v - mean
		sqSum += d * d
	}

	return Stats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Median: Percentile(sorted, 50),
		// Population standard deviation: divide by N, not N-1.
		StdDev: math.Sqrt(sqSum / float64(len(sorted))),
		P25:    Percentile(sorted, 25),
		P75:    Percentile(sorted, 75),
		P90:    Percentile(sorted, 90),
		Total:  total,
	}
}

// Percentile estimates the p-th percentile of an ascending-sorted slice by
// linear interpolation between order statistics: idx = (p/100)*(n-1); an
// integral idx returns that element, otherwise the two neighbors are blended
// by the fractional remainder. Matches the default of common statistical
// software.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
