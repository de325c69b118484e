package api

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brixel/server/internal/database"
	"brixel/server/internal/ingest"
	"brixel/server/internal/models"
	"brixel/server/internal/valuation"
)

type Handler struct {
	db     *database.Database
	engine *valuation.Engine
	queue  *ingest.SaleQueue
	logger *logrus.Logger
}

type ComparablesQuery struct {
	City         string `form:"city" binding:"required"`
	PropertyType string `form:"property_type" binding:"required"`
	Months       int    `form:"months"`
}

func NewHandler(db *database.Database, engine *valuation.Engine, queue *ingest.SaleQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:     db,
		engine: engine,
		queue:  queue,
		logger: logger,
	}
}

// ValuateProperty runs the valuation engine on a property supplied in the
// request body and returns the full report.
func (h *Handler) ValuateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		h.logger.WithError(err).Error("Failed to parse valuation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := h.engine.Valuate(c.Request.Context(), property)
	if err != nil {
		h.respondValuationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPropertyValuation valuates a stored property by id.
func (h *Handler) GetPropertyValuation(c *gin.Context) {
	property, ok := h.loadProperty(c)
	if !ok {
		return
	}

	report, err := h.engine.Valuate(c.Request.Context(), *property)
	if err != nil {
		h.respondValuationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAVMEstimate returns the lightweight estimate used on listing pages.
func (h *Handler) GetAVMEstimate(c *gin.Context) {
	property, ok := h.loadProperty(c)
	if !ok {
		return
	}

	estimate, err := h.engine.AVMEstimate(c.Request.Context(), *property)
	if err != nil {
		h.respondValuationError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// GetComparables lists stored sale records for a city and property type.
func (h *Handler) GetComparables(c *gin.Context) {
	var query ComparablesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse comparables query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "city and property_type are required"})
		return
	}
	if query.Months <= 0 {
		query.Months = 12
	}

	since := time.Now().AddDate(0, -query.Months, 0)
	sales, err := h.db.GetComparableSales(query.City, models.PropertyType(query.PropertyType), since)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get comparable sales")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get comparable sales"})
		return
	}

	c.JSON(http.StatusOK, sales)
}

// IngestComparables enqueues a batch of sale records for the ingest pipeline.
func (h *Handler) IngestComparables(c *gin.Context) {
	var batch []*models.SaleRecord
	if err := c.ShouldBindJSON(&batch); err != nil {
		h.logger.WithError(err).Error("Failed to parse sales batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Batch is empty"})
		return
	}

	if err := h.queue.Push(batch); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue sales batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingest queue unavailable, retry later"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"enqueued": len(batch),
	})
}

func (h *Handler) loadProperty(c *gin.Context) (*models.Property, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return nil, false
	}

	property, err := h.db.GetProperty(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to load property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return nil, false
	}

	return property, true
}

// respondValuationError maps engine errors to the HTTP surface: validation
// failures are the caller's fault, missing preconditions are unprocessable,
// anything else is a server error.
func (h *Handler) respondValuationError(c *gin.Context, err error) {
	var validationErr *valuation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"field":  validationErr.Field,
			"reason": validationErr.Reason,
		})
	case errors.Is(err, valuation.ErrNoApplicableMethod), errors.Is(err, valuation.ErrNoTrendData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("Valuation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Valuation failed"})
	}
}
