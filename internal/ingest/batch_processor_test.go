package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brixel/server/config"
	"brixel/server/internal/database"
	"brixel/server/internal/models"
)

func setupIngestTest(t *testing.T) (*database.Database, *gorm.DB, *config.Config) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	db, err := database.NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.ComparableIngest.ProcessorCount = 1
	cfg.ComparableIngest.MaxRetries = 0

	return db, gdb, cfg
}

func TestBatchProcessor_SingleSubscriptionWorkerPool(t *testing.T) {
	_, gdb, cfg := setupIngestTest(t)
	cfg.ComparableIngest.ProcessorCount = 4

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	q := NewSaleQueue(cfg.ComparableIngest.QueueSize, logger)
	p := NewBatchProcessor(gdb, q, cfg, logger)
	p.Start()

	// One subscription regardless of worker count, so a batch is only ever
	// written once.
	q.mu.RLock()
	handlerCount := len(q.handlers)
	q.mu.RUnlock()
	assert.Equal(t, 1, handlerCount)

	// Stop must actually wait the workers out, not return past an empty group.
	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cancelling the workers")
	}
}

func TestBatchProcessor_PersistsQueuedBatches(t *testing.T) {
	db, gdb, cfg := setupIngestTest(t)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	q := NewSaleQueue(cfg.ComparableIngest.QueueSize, logger)
	p := NewBatchProcessor(gdb, q, cfg, logger)
	p.Start()
	q.Start()
	t.Cleanup(func() {
		q.Close()
		p.Stop()
	})

	sold := time.Now().UTC().AddDate(0, -1, 0)
	batch := []*models.SaleRecord{
		{
			Address:      "Calle Mayor 1",
			City:         "Madrid",
			PropertyType: models.PropertyTypeApartment,
			SoldPrice:    300000,
			SoldDate:     sold,
			Area:         75,
		},
		{
			Address:      "Calle Mayor 2",
			City:         "Madrid",
			PropertyType: models.PropertyTypeApartment,
			SoldPrice:    320000,
			SoldDate:     sold,
			Area:         80,
		},
	}
	require.NoError(t, q.Push(batch))

	// Wait for the queue to dispatch and the transaction to commit.
	since := time.Now().UTC().AddDate(0, -12, 0)
	deadline := time.Now().Add(2 * time.Second)
	for {
		sales, err := db.GetComparableSales("Madrid", models.PropertyTypeApartment, since)
		require.NoError(t, err)
		if len(sales) == 2 {
			assert.ElementsMatch(t,
				[]float64{300000, 320000},
				[]float64{sales[0].SoldPrice, sales[1].SoldPrice},
			)
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 persisted sales, got %d", len(sales))
		}
		time.Sleep(20 * time.Millisecond)
	}
}
