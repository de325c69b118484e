package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"brixel/server/config"
	"brixel/server/internal/database"
	"brixel/server/internal/models"
)

// BatchProcessor drains the sale queue into the comparable_sales table, one
// transaction per batch with bounded retries. A single queue subscription
// fans batches out to ProcessorCount workers, so each batch is written
// exactly once.
type BatchProcessor struct {
	db        *gorm.DB
	logger    *logrus.Logger
	config    *config.Config
	queue     *SaleQueue
	jobs      chan []*models.SaleRecord
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance.
func NewBatchProcessor(db *gorm.DB, queue *SaleQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		jobs:   make(chan []*models.SaleRecord),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the queue and spawns the worker pool.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(func(batch []*models.SaleRecord) error {
		select {
		case p.jobs <- batch:
			return nil
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	})

	for i := 0; i < p.config.ComparableIngest.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// processLoop drains the job channel until shutdown.
func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case batch := <-p.jobs:
			if err := p.processBatch(batch); err != nil {
				p.logger.WithError(err).Error("Giving up on sales batch")
			}
		}
	}
}

// processBatch handles a single batch of sale records with transaction and
// retry logic.
func (p *BatchProcessor) processBatch(batch []*models.SaleRecord) error {
	var err error
	for attempt := 0; attempt <= p.config.ComparableIngest.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.ComparableIngest.MaxRetries)
			select {
			case <-p.ctx.Done():
				return p.ctx.Err()
			case <-time.After(time.Duration(p.config.ComparableIngest.RetryDelay) * time.Second):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertSales(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert sales batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d sale records", len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.ComparableIngest.MaxRetries, err)
}
