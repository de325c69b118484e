package models

import "time"

// AdjustmentSet captures the signed percentage corrections applied to a
// comparable's sold price to make it commensurable with the subject property.
type AdjustmentSet struct {
	Location  float64 `json:"location"`
	Size      float64 `json:"size"`
	Age       float64 `json:"age"`
	Condition float64 `json:"condition"`
	Features  float64 `json:"features"`
	Total     float64 `json:"total"`
}

// ComparableSale is an observed nearby transaction used as pricing evidence.
// AdjustedPrice must equal SoldPrice * (1 + Adjustments.Total/100).
type ComparableSale struct {
	Address        string        `json:"address"`
	City           string        `json:"city"`
	PropertyType   PropertyType  `json:"property_type"`
	DistanceMeters float64       `json:"distance_meters"`
	SoldPrice      float64       `json:"sold_price"`
	SoldDate       time.Time     `json:"sold_date"`
	Area           float64       `json:"area"`
	Bedrooms       *int          `json:"bedrooms"`
	Bathrooms      *int          `json:"bathrooms"`
	Adjustments    AdjustmentSet `json:"adjustments"`
	AdjustedPrice  float64       `json:"adjusted_price"`
}

// ApplyAdjustments recomputes Total from the individual components and derives
// AdjustedPrice from SoldPrice, keeping the invariant in one place.
func (c *ComparableSale) ApplyAdjustments(a AdjustmentSet) {
	a.Total = a.Location + a.Size + a.Age + a.Condition + a.Features
	c.Adjustments = a
	c.AdjustedPrice = c.SoldPrice * (1 + a.Total/100)
}

type InventoryLevel string

const (
	InventoryLow    InventoryLevel = "low"
	InventoryNormal InventoryLevel = "normal"
	InventoryHigh   InventoryLevel = "high"
)

type DemandLevel string

const (
	DemandLow      DemandLevel = "low"
	DemandModerate DemandLevel = "moderate"
	DemandHigh     DemandLevel = "high"
)

type PriceDirection string

const (
	PriceDeclining PriceDirection = "declining"
	PriceStable    PriceDirection = "stable"
	PriceRising    PriceDirection = "rising"
)

// Seasonality describes the buying/selling calendar for an area. Months are
// 1-based (January = 1).
type Seasonality struct {
	BestBuyMonths     []int   `json:"best_buy_months"`
	BestSellMonths    []int   `json:"best_sell_months"`
	CurrentMultiplier float64 `json:"current_multiplier"`
}

// MarketTrend is the snapshot returned by a trend provider for one area.
type MarketTrend struct {
	Area             string         `json:"area"`
	PriceChange1Year float64        `json:"price_change_1y"`
	PriceChange3Year float64        `json:"price_change_3y"`
	AvgDaysOnMarket  float64        `json:"avg_days_on_market"`
	InventoryLevel   InventoryLevel `json:"inventory_level"`
	DemandLevel      DemandLevel    `json:"demand_level"`
	PriceDirection   PriceDirection `json:"price_direction"`
	Seasonality      Seasonality    `json:"seasonality"`
}

// MethodResult is the output of one valuation methodology. Weight is the
// method's share before renormalization over the methods that actually ran.
type MethodResult struct {
	Method     string  `json:"method"`
	Weight     float64 `json:"weight"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// InvestmentMetrics is only produced when the rent price is known; a nil
// pointer on the report means "unknown", which is distinct from zero values.
type InvestmentMetrics struct {
	GrossRentalYield    float64 `json:"gross_rental_yield"`
	NetRentalYield      float64 `json:"net_rental_yield"`
	CapRate             float64 `json:"cap_rate"`
	CashFlow            float64 `json:"cash_flow"`
	ROI                 float64 `json:"roi"`
	PaybackPeriodYears  float64 `json:"payback_period_years"`
	FiveYearTotalReturn float64 `json:"five_year_total_return"`
}

type RiskCategory string

const (
	RiskMarket   RiskCategory = "market"
	RiskProperty RiskCategory = "property"
	RiskLocation RiskCategory = "location"
	RiskEconomic RiskCategory = "economic"
)

type RiskSeverity string

const (
	SeverityLow    RiskSeverity = "low"
	SeverityMedium RiskSeverity = "medium"
	SeverityHigh   RiskSeverity = "high"
)

// RiskFactor is informational: ValueImpact is the estimated percentage effect
// on value but is never subtracted from the point estimate.
type RiskFactor struct {
	Category    RiskCategory `json:"category"`
	Severity    RiskSeverity `json:"severity"`
	Description string       `json:"description"`
	ValueImpact float64      `json:"value_impact"`
}

type MarketPosition string

const (
	PositionBelow   MarketPosition = "below"
	PositionAverage MarketPosition = "average"
	PositionAbove   MarketPosition = "above"
)

// ValuationReport is the full output of one valuation run.
type ValuationReport struct {
	EstimatedValue  float64            `json:"estimated_value"`
	Confidence      float64            `json:"confidence"`
	PricePerSqm     float64            `json:"price_per_sqm"`
	MarketPosition  MarketPosition     `json:"market_position"`
	Methods         []MethodResult     `json:"methods"`
	Comparables     []ComparableSale   `json:"comparables"`
	MarketTrend     MarketTrend        `json:"market_trend"`
	Metrics         *InvestmentMetrics `json:"investment_metrics"`
	RiskFactors     []RiskFactor       `json:"risk_factors"`
	Recommendations []string           `json:"recommendations"`
}

// EstimateRange bounds an AVM point estimate.
type EstimateRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// AVMEstimate is the lightweight answer for listing pages: the point estimate
// with a confidence-scaled range around it.
type AVMEstimate struct {
	Estimate   float64       `json:"estimate"`
	Confidence float64       `json:"confidence"`
	Range      EstimateRange `json:"range"`
}
