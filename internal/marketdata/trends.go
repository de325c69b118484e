package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"brixel/server/config"
	"brixel/server/internal/database"
	"brixel/server/internal/models"
)

// TrendService derives a market trend snapshot from the sales store. It
// implements valuation.MarketTrendProvider. Thin data degrades to a neutral
// snapshot rather than an error; only a store failure is reported upward.
type TrendService struct {
	db     *database.Database
	logger *logrus.Logger

	now func() time.Time
}

func NewTrendService(db *database.Database, logger *logrus.Logger) *TrendService {
	return &TrendService{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (s *TrendService) FetchMarketTrend(ctx context.Context, area string) (models.MarketTrend, error) {
	if err := ctx.Err(); err != nil {
		return models.MarketTrend{}, err
	}

	agg, err := s.db.GetSalesAggregates(area)
	if err != nil {
		return models.MarketTrend{}, fmt.Errorf("failed to aggregate sales for %q: %w", area, err)
	}

	trend := models.MarketTrend{
		Area:             area,
		PriceChange1Year: yearChange(agg.AvgRate12M, agg.AvgRatePrior12M),
		PriceChange3Year: yearChange(agg.AvgRate12M, agg.AvgRate3YBack),
		AvgDaysOnMarket:  agg.AvgDaysOnMarket,
		InventoryLevel:   inventoryLevel(agg.ActiveListings, agg.SoldCount12M),
		DemandLevel:      demandLevel(agg.AvgDaysOnMarket),
		Seasonality:      seasonality(area, s.now()),
	}
	trend.PriceDirection = priceDirection(trend.PriceChange1Year)

	s.logger.WithFields(logrus.Fields{
		"area":            area,
		"price_change_1y": trend.PriceChange1Year,
		"sold_12m":        agg.SoldCount12M,
	}).Debug("Market trend computed")

	return trend, nil
}

func yearChange(current, reference float64) float64 {
	if current <= 0 || reference <= 0 {
		return 0
	}
	return (current/reference - 1) * 100
}

// priceDirection treats changes within one percent as noise.
func priceDirection(change1y float64) models.PriceDirection {
	switch {
	case change1y > 1:
		return models.PriceRising
	case change1y < -1:
		return models.PriceDeclining
	default:
		return models.PriceStable
	}
}

// inventoryLevel compares standing supply against the yearly absorption.
func inventoryLevel(active, sold12M int) models.InventoryLevel {
	if sold12M <= 0 {
		return models.InventoryNormal
	}
	ratio := float64(active) / float64(sold12M)
	switch {
	case ratio > 1.5:
		return models.InventoryHigh
	case ratio < 0.5:
		return models.InventoryLow
	default:
		return models.InventoryNormal
	}
}

func demandLevel(avgDaysOnMarket float64) models.DemandLevel {
	switch {
	case avgDaysOnMarket <= 0:
		// No days-on-market data recorded yet.
		return models.DemandModerate
	case avgDaysOnMarket < 35:
		return models.DemandHigh
	case avgDaysOnMarket <= 90:
		return models.DemandModerate
	default:
		return models.DemandLow
	}
}

func seasonality(area string, now time.Time) models.Seasonality {
	profile := config.SeasonalityFor(area)
	return models.Seasonality{
		BestBuyMonths:     profile.BestBuyMonths,
		BestSellMonths:    profile.BestSellMonths,
		CurrentMultiplier: profile.MonthMultipliers[int(now.Month())],
	}
}
