package valuation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brixel/server/internal/models"
)

func TestRecommend_RuleOrderAndIndependence(t *testing.T) {
	rating := models.EnergyRatingF
	p := models.Property{TotalArea: 80, EnergyRating: &rating}

	trend := models.MarketTrend{
		Area:           "Madrid",
		PriceDirection: models.PriceRising,
		DemandLevel:    models.DemandHigh,
		Seasonality:    models.Seasonality{BestSellMonths: []int{5}},
	}
	metrics := &models.InvestmentMetrics{NetRentalYield: 7.2, CashFlow: 3200}
	risks := []models.RiskFactor{{Severity: models.SeverityHigh}}

	// May 2026: the best-sell month rule fires too, so every rule matches.
	may := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	recs := recommend(p, trend, metrics, risks, may)

	require.Len(t, recs, 6)
	assert.Contains(t, recs[0], "selling month")
	assert.Contains(t, recs[1], "demand is high")
	assert.Contains(t, recs[2], "rental yield")
	assert.Contains(t, recs[3], "cash flow positive")
	assert.Contains(t, recs[4], "retrofit")
	assert.Contains(t, recs[5], "due diligence")
}

func TestRecommend_NoMatches(t *testing.T) {
	p := models.Property{TotalArea: 80}
	trend := models.MarketTrend{
		PriceDirection: models.PriceStable,
		DemandLevel:    models.DemandModerate,
		Seasonality:    models.Seasonality{BestSellMonths: []int{4}},
	}

	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	recs := recommend(p, trend, nil, nil, january)

	assert.Empty(t, recs)
}

func TestRecommend_MetricsRules(t *testing.T) {
	p := models.Property{TotalArea: 80}
	trend := models.MarketTrend{PriceDirection: models.PriceStable}
	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Yield below threshold only flags cash flow", func(t *testing.T) {
		metrics := &models.InvestmentMetrics{NetRentalYield: 4.1, CashFlow: 500}
		recs := recommend(p, trend, metrics, nil, january)

		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "cash flow positive")
	})

	t.Run("Negative cash flow stays silent", func(t *testing.T) {
		metrics := &models.InvestmentMetrics{NetRentalYield: 2.0, CashFlow: -1200}
		assert.Empty(t, recommend(p, trend, metrics, nil, january))
	})
}

func TestRecommend_SingleDueDiligenceLine(t *testing.T) {
	p := models.Property{TotalArea: 80}
	risks := []models.RiskFactor{
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityHigh},
	}

	recs := recommend(p, models.MarketTrend{}, nil, risks, testNow)

	count := 0
	for _, r := range recs {
		if strings.Contains(r, "due diligence") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
