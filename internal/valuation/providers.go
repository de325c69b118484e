package valuation

import (
	"context"

	"brixel/server/internal/models"
)

// Location identifies where to look for comparable evidence. Coordinates are
// optional; providers fall back to city-level matching without them.
type Location struct {
	City      string
	Latitude  *float64
	Longitude *float64
}

// ComparableSalesProvider returns nearby recent sales for a location and
// property type. An empty slice means "no results" and is not an error;
// errors are reserved for transport or provider failures.
type ComparableSalesProvider interface {
	FetchComparables(ctx context.Context, loc Location, propertyType models.PropertyType, radiusMeters float64) ([]models.ComparableSale, error)
}

// MarketTrendProvider returns trend statistics for an area. Implementations
// must honour context cancellation and should fall back to a neutral snapshot
// rather than fail when their data is thin.
type MarketTrendProvider interface {
	FetchMarketTrend(ctx context.Context, area string) (models.MarketTrend, error)
}
