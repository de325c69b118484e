package valuation

import (
	"fmt"
	"time"

	"brixel/server/internal/models"
)

// recommend turns the trend, metrics and risk outputs into short actionable
// statements. Rules are evaluated in declaration order and never suppress
// each other.
func recommend(p models.Property, trend models.MarketTrend, metrics *models.InvestmentMetrics, risks []models.RiskFactor, now time.Time) []string {
	var recs []string

	if containsMonth(trend.Seasonality.BestSellMonths, int(now.Month())) {
		recs = append(recs, fmt.Sprintf("%s is historically a strong selling month in %s; listing now may shorten time on market.",
			now.Month(), trend.Area))
	}

	if trend.PriceDirection == models.PriceRising && trend.DemandLevel == models.DemandHigh {
		recs = append(recs, "Prices are rising and demand is high; sellers hold the stronger negotiating position.")
	}

	if metrics != nil && metrics.NetRentalYield > 6 {
		recs = append(recs, fmt.Sprintf("Net rental yield of %.1f%% is well above financing cost; attractive as a buy-to-let.",
			metrics.NetRentalYield))
	}

	if metrics != nil && metrics.CashFlow > 0 {
		recs = append(recs, "The property is cash flow positive under standard financing assumptions.")
	}

	if p.EnergyRating != nil {
		switch *p.EnergyRating {
		case models.EnergyRatingE, models.EnergyRatingF, models.EnergyRatingG:
			recs = append(recs, fmt.Sprintf("Energy rating %s leaves clear retrofit upside; an efficiency upgrade typically lifts both value and rentability.",
				*p.EnergyRating))
		}
	}

	for _, r := range risks {
		if r.Severity == models.SeverityHigh {
			recs = append(recs, "At least one high-severity risk was flagged; perform additional due diligence before committing.")
			break
		}
	}

	return recs
}

func containsMonth(months []int, month int) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}
