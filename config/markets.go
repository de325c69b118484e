package config

import (
	"strings"

	"brixel/server/internal/models"
)

// Market holds the static pricing constants for one city. The tables are
// process-wide lookup data loaded at startup and never mutated; valuation
// logic reads them through the accessor functions below.
type Market struct {
	Name string `json:"name"`

	// BasePricePerSqm is the reference market rate in EUR per square meter.
	BasePricePerSqm float64 `json:"base_price_per_sqm"`

	// BaseCapRate is the reference capitalization rate in percent.
	BaseCapRate float64 `json:"base_cap_rate"`

	Seasonality SeasonalityProfile `json:"seasonality"`
}

// SeasonalityProfile describes the transaction calendar of a market.
// MonthMultipliers is indexed by time.Month (1-based, index 0 unused).
type SeasonalityProfile struct {
	BestBuyMonths    []int       `json:"best_buy_months"`
	BestSellMonths   []int       `json:"best_sell_months"`
	MonthMultipliers [13]float64 `json:"month_multipliers"`
}

var defaultSeasonality = SeasonalityProfile{
	BestBuyMonths:  []int{1, 2, 8},
	BestSellMonths: []int{4, 5, 6, 9},
	MonthMultipliers: [13]float64{0,
		0.97, 0.97, 1.00, 1.03, 1.04, 1.03,
		1.00, 0.96, 1.02, 1.01, 0.99, 0.98,
	},
}

// SupportedMarkets is the list of cities with calibrated pricing tables.
var SupportedMarkets = []Market{
	{Name: "madrid", BasePricePerSqm: 4200, BaseCapRate: 4.0, Seasonality: defaultSeasonality},
	{Name: "barcelona", BasePricePerSqm: 4500, BaseCapRate: 3.8, Seasonality: defaultSeasonality},
	{Name: "valencia", BasePricePerSqm: 2200, BaseCapRate: 5.2, Seasonality: defaultSeasonality},
	{Name: "sevilla", BasePricePerSqm: 2400, BaseCapRate: 5.0, Seasonality: defaultSeasonality},
	{Name: "bilbao", BasePricePerSqm: 3100, BaseCapRate: 4.5, Seasonality: defaultSeasonality},
}

// Fallbacks for cities without a calibrated table.
const (
	DefaultBasePricePerSqm = 2000.0
	DefaultBaseCapRate     = 5.5
)

// constructionCostPerSqm is the replacement cost per square meter by property
// type, used by the cost approach. Land has no structure to rebuild.
var constructionCostPerSqm = map[models.PropertyType]float64{
	models.PropertyTypeApartment:  1200,
	models.PropertyTypeHouse:      1400,
	models.PropertyTypeCommercial: 1100,
	models.PropertyTypeWarehouse:  700,
	models.PropertyTypeLand:       0,
}

// capRateTypeAdjustment shifts a city's base cap rate by property type.
var capRateTypeAdjustment = map[models.PropertyType]float64{
	models.PropertyTypeApartment:  0,
	models.PropertyTypeHouse:      0.5,
	models.PropertyTypeCommercial: -1.0,
	models.PropertyTypeWarehouse:  1.5,
	models.PropertyTypeLand:       2.5,
}

// typeMultiplier scales the per-area base rate by property type.
var typeMultiplier = map[models.PropertyType]float64{
	models.PropertyTypeApartment:  1.00,
	models.PropertyTypeHouse:      1.15,
	models.PropertyTypeCommercial: 0.90,
	models.PropertyTypeWarehouse:  0.70,
	models.PropertyTypeLand:       0.50,
}

// GetMarketNames returns a list of supported market names.
func GetMarketNames() []string {
	names := make([]string, len(SupportedMarkets))
	for i, m := range SupportedMarkets {
		names[i] = m.Name
	}
	return names
}

// GetMarketByName returns a market configuration by city name, or nil when
// the city has no calibrated table.
func GetMarketByName(name string) *Market {
	name = strings.ToLower(name)
	for _, m := range SupportedMarkets {
		if m.Name == name {
			return &m
		}
	}
	return nil
}

// BasePricePerSqm returns the reference rate for a city, falling back to the
// national default for unknown markets.
func BasePricePerSqm(city string) float64 {
	if m := GetMarketByName(city); m != nil {
		return m.BasePricePerSqm
	}
	return DefaultBasePricePerSqm
}

// CapRate returns the capitalization rate in percent for a city and property
// type combination.
func CapRate(city string, propertyType models.PropertyType) float64 {
	base := DefaultBaseCapRate
	if m := GetMarketByName(city); m != nil {
		base = m.BaseCapRate
	}
	return base + capRateTypeAdjustment[propertyType]
}

// ConstructionCostPerSqm returns the replacement cost per square meter for a
// property type. Unknown types cost as much as the cheapest structure.
func ConstructionCostPerSqm(propertyType models.PropertyType) float64 {
	if c, ok := constructionCostPerSqm[propertyType]; ok {
		return c
	}
	return constructionCostPerSqm[models.PropertyTypeWarehouse]
}

// TypeMultiplier returns the per-area rate multiplier for a property type.
func TypeMultiplier(propertyType models.PropertyType) float64 {
	if m, ok := typeMultiplier[propertyType]; ok {
		return m
	}
	return 1.0
}

// SeasonalityFor returns the seasonality profile for a city, falling back to
// the shared national calendar.
func SeasonalityFor(city string) SeasonalityProfile {
	if m := GetMarketByName(city); m != nil {
		return m.Seasonality
	}
	return defaultSeasonality
}
