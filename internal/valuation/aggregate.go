package valuation

import (
	"sort"

	"brixel/server/internal/models"
)

// aggregate combines the results of the methods that ran into one weighted
// estimate and confidence. Weights renormalize over the included subset so
// the relative influence of each method is preserved when some are absent.
func aggregate(results []models.MethodResult) (value, confidence float64, err error) {
	if len(results) == 0 {
		return 0, 0, ErrNoApplicableMethod
	}

	var weightSum, valueSum, confSum float64
	for _, r := range results {
		weightSum += r.Weight
		valueSum += r.Value * r.Weight
		confSum += r.Confidence * r.Weight
	}
	if weightSum == 0 {
		return 0, 0, ErrNoApplicableMethod
	}

	return valueSum / weightSum, confSum / weightSum, nil
}

// marketPosition classifies the subject's price per square meter against the
// median of the comparable set. Median rather than mean, to resist outliers.
// Without comparables there is no evidence to classify against, so the
// position defaults to average.
func marketPosition(pricePerSqm float64, comps []models.ComparableSale) models.MarketPosition {
	var rates []float64
	for _, c := range comps {
		if c.Area > 0 {
			rates = append(rates, c.AdjustedPrice/c.Area)
		}
	}
	if len(rates) == 0 {
		return models.PositionAverage
	}

	m := median(rates)
	switch {
	case pricePerSqm < 0.9*m:
		return models.PositionBelow
	case pricePerSqm > 1.1*m:
		return models.PositionAbove
	default:
		return models.PositionAverage
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
