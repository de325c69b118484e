package valuation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"brixel/server/config"
	"brixel/server/internal/models"
)

// Engine is the valuation orchestrator and the package's public entry point.
// It holds no mutable state of its own: every call computes a fresh report
// from its input plus data fetched from the injected providers, so concurrent
// calls are safe.
type Engine struct {
	comparables ComparableSalesProvider
	trends      MarketTrendProvider
	logger      *logrus.Logger

	radiusMeters float64
	fetchTimeout time.Duration

	now func() time.Time
}

// NewEngine wires the orchestrator with its two data providers.
func NewEngine(comparables ComparableSalesProvider, trends MarketTrendProvider, cfg *config.Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Engine{
		comparables:  comparables,
		trends:       trends,
		logger:       logger,
		radiusMeters: cfg.Providers.ComparableRadiusMeters,
		fetchTimeout: time.Duration(cfg.Providers.TimeoutSeconds) * time.Second,
		now:          time.Now,
	}
}

// Valuate runs the full pipeline: validate, fetch evidence, run every
// applicable method, aggregate, then derive metrics, risks and
// recommendations. Given identical input and identical provider responses
// the output is identical.
func (e *Engine) Valuate(ctx context.Context, p models.Property) (models.ValuationReport, error) {
	if err := validateProperty(p); err != nil {
		return models.ValuationReport{}, err
	}

	comps, trend, err := e.fetchEvidence(ctx, p)
	if err != nil {
		return models.ValuationReport{}, err
	}

	now := e.now()
	results := runMethods(p, comps, trend, now)

	value, confidence, err := aggregate(results)
	if err != nil {
		return models.ValuationReport{}, err
	}

	pricePerSqm := value / p.TotalArea
	metrics := calculateInvestmentMetrics(p, value)
	risks := assessRisks(p, trend, comps)

	report := models.ValuationReport{
		EstimatedValue:  value,
		Confidence:      confidence,
		PricePerSqm:     pricePerSqm,
		MarketPosition:  marketPosition(pricePerSqm, comps),
		Methods:         results,
		Comparables:     comps,
		MarketTrend:     trend,
		Metrics:         metrics,
		RiskFactors:     risks,
		Recommendations: recommend(p, trend, metrics, risks, now),
	}

	e.logger.WithFields(logrus.Fields{
		"city":            p.City,
		"property_type":   p.PropertyType,
		"methods":         len(results),
		"comparables":     len(comps),
		"estimated_value": value,
		"confidence":      confidence,
	}).Info("Valuation completed")

	return report, nil
}

// AVMEstimate is the lightweight wrapper used on listing pages: the point
// estimate with a range that widens as confidence drops.
func (e *Engine) AVMEstimate(ctx context.Context, p models.Property) (models.AVMEstimate, error) {
	report, err := e.Valuate(ctx, p)
	if err != nil {
		return models.AVMEstimate{}, err
	}

	spread := report.EstimatedValue * (1 - report.Confidence/100) * 0.5
	return models.AVMEstimate{
		Estimate:   report.EstimatedValue,
		Confidence: report.Confidence,
		Range: models.EstimateRange{
			Low:  report.EstimatedValue - spread,
			High: report.EstimatedValue + spread,
		},
	}, nil
}

// fetchEvidence issues the two provider reads concurrently. A comparables
// failure degrades the call (CMA will not run and a location risk is
// flagged); a trend failure is fatal because every method consults the trend.
func (e *Engine) fetchEvidence(ctx context.Context, p models.Property) ([]models.ComparableSale, models.MarketTrend, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	var (
		comps []models.ComparableSale
		trend models.MarketTrend
	)

	g, gctx := errgroup.WithContext(fetchCtx)

	g.Go(func() error {
		loc := Location{City: p.City, Latitude: p.Latitude, Longitude: p.Longitude}
		found, err := e.comparables.FetchComparables(gctx, loc, p.PropertyType, e.radiusMeters)
		if err != nil {
			e.logger.WithError(err).Warn("Comparable lookup failed, valuing without comparables")
			return nil
		}
		comps = found
		return nil
	})

	g.Go(func() error {
		snapshot, err := e.trends.FetchMarketTrend(gctx, p.City)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoTrendData, err)
		}
		trend = snapshot
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, models.MarketTrend{}, err
	}
	return comps, trend, nil
}

func validateProperty(p models.Property) error {
	if p.TotalArea <= 0 {
		return &ValidationError{Field: "total_area", Reason: "must be greater than zero"}
	}
	if !p.PropertyType.Valid() {
		return &ValidationError{Field: "property_type", Reason: fmt.Sprintf("unknown value %q", p.PropertyType)}
	}
	if p.ListingPrice != nil && *p.ListingPrice < 0 {
		return &ValidationError{Field: "listing_price", Reason: "must not be negative"}
	}
	if p.RentPrice != nil && *p.RentPrice < 0 {
		return &ValidationError{Field: "rent_price", Reason: "must not be negative"}
	}
	return nil
}
