package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"brixel/server/config"
	"brixel/server/internal/database"
	"brixel/server/internal/models"
	"brixel/server/internal/valuation"
)

// ComparableService serves comparable-sale evidence from the local sales
// store. It implements valuation.ComparableSalesProvider.
//
// Adjustments are derived deterministically from the stored record and its
// distance to the subject, so repeated lookups over unchanged data yield
// identical evidence.
type ComparableService struct {
	db     *database.Database
	logger *logrus.Logger

	maxResults  int
	maxAgeMonth int

	now func() time.Time
}

func NewComparableService(db *database.Database, cfg *config.Config, logger *logrus.Logger) *ComparableService {
	return &ComparableService{
		db:          db,
		logger:      logger,
		maxResults:  cfg.Providers.ComparableMaxResults,
		maxAgeMonth: cfg.Providers.ComparableMaxAgeMonths,
		now:         time.Now,
	}
}

type scoredSale struct {
	record   models.SaleRecord
	distance float64
}

// FetchComparables returns the closest recent sales of the same property type
// in the subject's city. An empty result is not an error. When either side
// lacks coordinates the sale is kept with a zero distance (city-level match).
func (s *ComparableService) FetchComparables(ctx context.Context, loc valuation.Location, propertyType models.PropertyType, radiusMeters float64) ([]models.ComparableSale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, -s.maxAgeMonth, 0)

	records, err := s.db.GetComparableSales(loc.City, propertyType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparable sales: %w", err)
	}

	var scored []scoredSale
	for _, rec := range records {
		d, known := distanceMeters(loc, rec)
		if known && d > radiusMeters {
			continue
		}
		scored = append(scored, scoredSale{record: rec, distance: d})
	}

	// Closest evidence first; ties keep the DB order (newest first).
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})
	if len(scored) > s.maxResults {
		scored = scored[:s.maxResults]
	}

	medianArea := medianSaleArea(scored)

	comps := make([]models.ComparableSale, 0, len(scored))
	for _, sc := range scored {
		comp := models.ComparableSale{
			Address:        sc.record.Address,
			City:           sc.record.City,
			PropertyType:   sc.record.PropertyType,
			DistanceMeters: sc.distance,
			SoldPrice:      sc.record.SoldPrice,
			SoldDate:       sc.record.SoldDate,
			Area:           sc.record.Area,
			Bedrooms:       sc.record.Bedrooms,
			Bathrooms:      sc.record.Bathrooms,
		}
		comp.ApplyAdjustments(deriveAdjustments(sc.record, sc.distance, medianArea, now))
		comps = append(comps, comp)
	}

	s.logger.WithFields(logrus.Fields{
		"city":          loc.City,
		"property_type": propertyType,
		"found":         len(comps),
	}).Debug("Comparable lookup finished")

	return comps, nil
}

// distanceMeters reports the haversine distance between the subject and a
// sale, and whether both sides had coordinates to measure with.
func distanceMeters(loc valuation.Location, rec models.SaleRecord) (float64, bool) {
	if loc.Latitude == nil || loc.Longitude == nil || rec.Latitude == nil || rec.Longitude == nil {
		return 0, false
	}
	subject := orb.Point{*loc.Longitude, *loc.Latitude}
	sale := orb.Point{*rec.Longitude, *rec.Latitude}
	return geo.DistanceHaversine(subject, sale), true
}

// deriveAdjustments normalizes a comparable toward the local standard unit.
// The bands are calibration defaults pending review with the pricing team.
func deriveAdjustments(rec models.SaleRecord, distance, medianArea float64, now time.Time) models.AdjustmentSet {
	var a models.AdjustmentSet

	// Farther evidence carries a discount.
	switch {
	case distance < 500:
		a.Location = 0
	case distance < 1500:
		a.Location = -1
	case distance < 3000:
		a.Location = -2.5
	default:
		a.Location = -4
	}

	if medianArea > 0 && rec.Area > 0 {
		a.Size = clamp((medianArea-rec.Area)/medianArea*100*0.5, -10, 10)
	}

	if rec.YearBuilt != nil {
		age := now.Year() - *rec.YearBuilt
		switch {
		case age <= 10:
			a.Age = 2
		case age > 40:
			a.Age = -5
		case age > 25:
			a.Age = -2.5
		}
	}

	// No condition or feature data in the sales feed yet.
	return a
}

func medianSaleArea(scored []scoredSale) float64 {
	var areas []float64
	for _, sc := range scored {
		if sc.record.Area > 0 {
			areas = append(areas, sc.record.Area)
		}
	}
	if len(areas) == 0 {
		return 0
	}
	sort.Float64s(areas)
	n := len(areas)
	if n%2 == 1 {
		return areas[n/2]
	}
	return (areas[n/2-1] + areas[n/2]) / 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
