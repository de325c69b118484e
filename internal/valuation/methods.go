package valuation

import (
	"fmt"
	"math"
	"time"

	"brixel/server/config"
	"brixel/server/internal/models"
)

// Method names as they appear in reports.
const (
	MethodCMA    = "Comparative Market Analysis"
	MethodPPSM   = "Price per Square Meter"
	MethodCost   = "Cost Approach"
	MethodIncome = "Income Approach"
)

// Base weights per method, renormalized over whichever subset actually runs.
const (
	weightCMA    = 40.0
	weightPPSM   = 30.0
	weightCost   = 20.0
	weightIncome = 10.0
)

// minComparablesForCMA is a hard precondition: below it the method does not
// run at all rather than run with a penalty.
const minComparablesForCMA = 3

// runMethods evaluates every estimator against the subject and collects the
// ones that consider themselves applicable, in declaration order. Each
// estimator signals inapplicability by returning nil; callers must never
// assume all four ran.
func runMethods(p models.Property, comps []models.ComparableSale, trend models.MarketTrend, now time.Time) []models.MethodResult {
	var results []models.MethodResult
	for _, r := range []*models.MethodResult{
		comparativeMarketAnalysis(comps),
		pricePerSqm(p, trend, now),
		costApproach(p, now),
		incomeApproach(p),
	} {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// comparativeMarketAnalysis averages the adjusted prices of the comparable
// set. Confidence rewards tight clustering: it starts at 95 and loses one
// point per percent of coefficient of variation, floored at 60.
func comparativeMarketAnalysis(comps []models.ComparableSale) *models.MethodResult {
	if len(comps) < minComparablesForCMA {
		return nil
	}

	var sum float64
	for _, c := range comps {
		sum += c.AdjustedPrice
	}
	mean := sum / float64(len(comps))
	if mean <= 0 {
		return nil
	}

	var variance float64
	for _, c := range comps {
		d := c.AdjustedPrice - mean
		variance += d * d
	}
	variance /= float64(len(comps))
	cv := math.Sqrt(variance) / mean

	confidence := 95 - cv*100
	if confidence < 60 {
		confidence = 60
	}

	return &models.MethodResult{
		Method:     MethodCMA,
		Weight:     weightCMA,
		Value:      mean,
		Confidence: confidence,
		Rationale:  fmt.Sprintf("Average of %d adjusted comparable sales within the search radius", len(comps)),
	}
}

// pricePerSqm always applies. The city base rate is advanced by half the
// annual trend (mid-year snapshot) and scaled by property type, age band and
// size multipliers before being multiplied by the area.
func pricePerSqm(p models.Property, trend models.MarketTrend, now time.Time) *models.MethodResult {
	rate := config.BasePricePerSqm(p.City)
	rate *= 1 + trend.PriceChange1Year/100/2

	factor := config.TypeMultiplier(p.PropertyType)
	factor *= ageMultiplier(p, now)
	factor *= sizeMultiplier(p.TotalArea)

	return &models.MethodResult{
		Method:     MethodPPSM,
		Weight:     weightPPSM,
		Value:      rate * factor * p.TotalArea,
		Confidence: 75,
		Rationale: fmt.Sprintf("City base rate of %.0f/sqm adjusted for trend, type, age and size over %.0f sqm",
			config.BasePricePerSqm(p.City), p.TotalArea),
	}
}

func ageMultiplier(p models.Property, now time.Time) float64 {
	age, ok := p.Age(now)
	if !ok {
		return 1.0
	}
	switch {
	case age <= 5:
		return 1.10
	case age <= 15:
		return 1.05
	case age <= 30:
		return 1.00
	default:
		return 0.90
	}
}

func sizeMultiplier(area float64) float64 {
	switch {
	case area > 150:
		return 0.95
	case area < 50:
		return 1.05
	default:
		return 1.00
	}
}

// costApproach values the property as depreciated replacement cost plus land.
// It only runs when the construction year is known; depreciation is linear at
// 2% per year, capped at 50%.
func costApproach(p models.Property, now time.Time) *models.MethodResult {
	age, ok := p.Age(now)
	if !ok {
		return nil
	}

	depreciation := math.Min(float64(age)*0.02, 0.5)
	construction := config.ConstructionCostPerSqm(p.PropertyType) * p.TotalArea * (1 - depreciation)
	land := 0.30 * config.BasePricePerSqm(p.City) * p.TotalArea

	return &models.MethodResult{
		Method:     MethodCost,
		Weight:     weightCost,
		Value:      construction + land,
		Confidence: 70,
		Rationale: fmt.Sprintf("Replacement cost depreciated %.0f%% for a %d year old building plus land value",
			depreciation*100, age),
	}
}

// incomeApproach capitalizes the annual rent at the market cap rate for the
// city and property type. It only runs when a rent price is known.
func incomeApproach(p models.Property) *models.MethodResult {
	if p.RentPrice == nil {
		return nil
	}

	capRate := config.CapRate(p.City, p.PropertyType)
	if capRate <= 0 {
		return nil
	}

	return &models.MethodResult{
		Method:     MethodIncome,
		Weight:     weightIncome,
		Value:      (*p.RentPrice * 12) / (capRate / 100),
		Confidence: 65,
		Rationale:  fmt.Sprintf("Annual rent capitalized at a %.1f%% cap rate", capRate),
	}
}
