package valuation

import (
	"math"

	"brixel/server/internal/models"
)

// Investment assumptions. These are reporting conventions, not market data,
// so they live here rather than in the per-city tables.
const (
	expenseRatio    = 0.25 // taxes, maintenance, vacancy, management
	financingRate   = 0.04 // assumed annual financing cost on full value
	downPaymentRate = 0.20
	valueGrowthRate = 0.05
	rentGrowthRate  = 0.03
)

// calculateInvestmentMetrics derives rental yield and return figures. It
// returns nil when the rent price is unknown: absent metrics must stay
// distinguishable from zero metrics.
func calculateInvestmentMetrics(p models.Property, estimatedValue float64) *models.InvestmentMetrics {
	if p.RentPrice == nil || estimatedValue <= 0 {
		return nil
	}

	annualRent := *p.RentPrice * 12
	netRent := annualRent * (1 - expenseRatio)
	netYield := netRent / estimatedValue * 100

	cashFlow := netRent - financingRate*estimatedValue
	downPayment := downPaymentRate * estimatedValue

	// Floor at one currency unit so a negative cash flow cannot produce a
	// negative or absurd payback period.
	payback := downPayment / math.Max(cashFlow, 1)

	futureValue := estimatedValue * math.Pow(1+valueGrowthRate, 5)
	futureAnnualRent := annualRent * math.Pow(1+rentGrowthRate, 5)
	fiveYearReturn := (futureValue + futureAnnualRent*5 - estimatedValue) / estimatedValue * 100

	return &models.InvestmentMetrics{
		GrossRentalYield:    annualRent / estimatedValue * 100,
		NetRentalYield:      netYield,
		CapRate:             netYield,
		CashFlow:            cashFlow,
		ROI:                 cashFlow / downPayment * 100,
		PaybackPeriodYears:  payback,
		FiveYearTotalReturn: fiveYearReturn,
	}
}
