package valuation

import (
	"fmt"

	"brixel/server/internal/models"
)

// assessRisks scans the subject, the trend snapshot and the comparable set
// for known risk patterns. Every triggered check emits a factor; there is no
// precedence or mutual exclusion between them. Impacts are surfaced to the
// consumer but never subtracted from the estimate, so the point estimate
// stays traceable to the method formulas alone.
func assessRisks(p models.Property, trend models.MarketTrend, comps []models.ComparableSale) []models.RiskFactor {
	var risks []models.RiskFactor

	if trend.PriceChange1Year > 15 {
		risks = append(risks, models.RiskFactor{
			Category:    models.RiskMarket,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("Prices rose %.1f%% in one year, a possible overheating signal", trend.PriceChange1Year),
			ValueImpact: -5,
		})
	}

	if trend.InventoryLevel == models.InventoryHigh {
		risks = append(risks, models.RiskFactor{
			Category:    models.RiskMarket,
			Severity:    models.SeverityMedium,
			Description: "High inventory of competing listings in the area",
			ValueImpact: -3,
		})
	}

	if p.YearBuilt != nil && *p.YearBuilt < 1980 {
		risks = append(risks, models.RiskFactor{
			Category:    models.RiskProperty,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("Built in %d; buildings of this age often need structural and installation upgrades", *p.YearBuilt),
			ValueImpact: -8,
		})
	}

	if p.TotalArea < 30 {
		risks = append(risks, models.RiskFactor{
			Category:    models.RiskProperty,
			Severity:    models.SeverityLow,
			Description: "Very small surface area limits the buyer pool",
			ValueImpact: -3,
		})
	}

	if len(comps) < minComparablesForCMA {
		risks = append(risks, models.RiskFactor{
			Category:    models.RiskLocation,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("Only %d comparable sales found; the valuation rests on thin local evidence", len(comps)),
			ValueImpact: -10,
		})
	}

	return risks
}
