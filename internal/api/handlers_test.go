package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brixel/server/config"
	"brixel/server/internal/database"
	"brixel/server/internal/ingest"
	"brixel/server/internal/models"
	"brixel/server/internal/valuation"
)

type stubComparables struct {
	comps []models.ComparableSale
	err   error
}

func (s stubComparables) FetchComparables(ctx context.Context, loc valuation.Location, propertyType models.PropertyType, radiusMeters float64) ([]models.ComparableSale, error) {
	return s.comps, s.err
}

type stubTrends struct {
	trend models.MarketTrend
	err   error
}

func (s stubTrends) FetchMarketTrend(ctx context.Context, area string) (models.MarketTrend, error) {
	return s.trend, s.err
}

func neutralTrend() models.MarketTrend {
	return models.MarketTrend{
		Area:           "Madrid",
		InventoryLevel: models.InventoryNormal,
		DemandLevel:    models.DemandModerate,
		PriceDirection: models.PriceStable,
	}
}

type handlerFixture struct {
	router *gin.Engine
	db     *database.Database
	queue  *ingest.SaleQueue
}

func setupHandlerTest(t *testing.T, comps valuation.ComparableSalesProvider, trends valuation.MarketTrendProvider, queueSize int) handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	queue := ingest.NewSaleQueue(queueSize, logger)
	engine := valuation.NewEngine(comps, trends, cfg, logger)

	router := gin.New()
	SetupRoutes(router, NewHandler(db, engine, queue, logger))

	return handlerFixture{router: router, db: db, queue: queue}
}

func performJSON(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testProperty() models.Property {
	return models.Property{
		Address:      "Calle de Velázquez 32",
		City:         "Madrid",
		PropertyType: models.PropertyTypeApartment,
		TotalArea:    80,
	}
}

func TestValuateProperty(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodPost, "/api/valuations", testProperty())
	require.Equal(t, http.StatusOK, w.Code)

	var report models.ValuationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	// No comparables, no year, no rent: only the per-area method runs.
	assert.InDelta(t, 336000, report.EstimatedValue, 1e-6)
	assert.InDelta(t, 75, report.Confidence, 1e-6)
	require.Len(t, report.Methods, 1)
	assert.Nil(t, report.Metrics)
}

func TestValuateProperty_ValidationError(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	invalid := testProperty()
	invalid.TotalArea = 0

	w := performJSON(f.router, http.MethodPost, "/api/valuations", invalid)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, "total_area", body["field"])
	assert.NotEmpty(t, body["reason"])
}

func TestValuateProperty_MalformedBody(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/valuations", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValuateProperty_NoTrendData(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{err: errors.New("store offline")}, 10)

	w := performJSON(f.router, http.MethodPost, "/api/valuations", testProperty())
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "no market trend data")
}

func TestGetPropertyValuation(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	p := testProperty()
	require.NoError(t, f.db.InsertProperty(&p))

	w := performJSON(f.router, http.MethodGet, "/api/properties/1/valuation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.ValuationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Greater(t, report.EstimatedValue, 0.0)
}

func TestGetPropertyValuation_NotFound(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodGet, "/api/properties/9999/valuation", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPropertyValuation_InvalidID(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodGet, "/api/properties/abc/valuation", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAVMEstimate(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	p := testProperty()
	require.NoError(t, f.db.InsertProperty(&p))

	w := performJSON(f.router, http.MethodGet, "/api/properties/1/avm-estimate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var estimate models.AVMEstimate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &estimate))
	assert.Greater(t, estimate.Estimate, 0.0)
	assert.LessOrEqual(t, estimate.Range.Low, estimate.Estimate)
	assert.GreaterOrEqual(t, estimate.Range.High, estimate.Estimate)
}

func TestGetComparables_MissingParams(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodGet, "/api/comparables?city=Madrid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetComparables(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodGet, "/api/comparables?city=Madrid&property_type=apartment", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIngestComparables(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	batch := []models.SaleRecord{
		{Address: "Calle Mayor 1", City: "Madrid", PropertyType: models.PropertyTypeApartment, SoldPrice: 300000, Area: 75},
		{Address: "Calle Mayor 2", City: "Madrid", PropertyType: models.PropertyTypeApartment, SoldPrice: 320000, Area: 80},
	}

	w := performJSON(f.router, http.MethodPost, "/api/comparables", batch)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["enqueued"])
	assert.Equal(t, 1, f.queue.Len())
}

func TestIngestComparables_EmptyBatch(t *testing.T) {
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 10)

	w := performJSON(f.router, http.MethodPost, "/api/comparables", []models.SaleRecord{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestComparables_QueueFull(t *testing.T) {
	// Zero-capacity queue with no processor attached: every push is rejected.
	f := setupHandlerTest(t, stubComparables{}, stubTrends{trend: neutralTrend()}, 0)

	batch := []models.SaleRecord{
		{Address: "Calle Mayor 1", City: "Madrid", PropertyType: models.PropertyTypeApartment, SoldPrice: 300000, Area: 75},
	}

	w := performJSON(f.router, http.MethodPost, "/api/comparables", batch)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
