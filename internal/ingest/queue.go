package ingest

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"brixel/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// SaleQueue is an in-memory queue of sale-record batches feeding the batch
// processor. Pushes never block so an overloaded ingest path sheds load
// instead of stalling the HTTP layer.
type SaleQueue struct {
	items    chan []*models.SaleRecord
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.SaleRecord) error
}

// NewSaleQueue creates a new sale queue with the specified buffer size.
func NewSaleQueue(bufferSize int, logger *logrus.Logger) *SaleQueue {
	return &SaleQueue{
		items:    make(chan []*models.SaleRecord, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.SaleRecord) error, 0),
	}
}

// Push adds a batch of sale records to the queue.
func (q *SaleQueue) Push(sales []*models.SaleRecord) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send to prevent deadlocks. The lock is held across the
	// send so Close cannot close the channel mid-send.
	select {
	case q.items <- sales:
		q.logger.WithField("batch_size", len(sales)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *SaleQueue) Subscribe(handler func([]*models.SaleRecord) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue.
func (q *SaleQueue) Start() {
	go q.process()
}

func (q *SaleQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.dispatch(batch)
		}
	}
}

// dispatch sends the batch to all subscribed handlers.
func (q *SaleQueue) dispatch(batch []*models.SaleRecord) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added.
func (q *SaleQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue.
func (q *SaleQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *SaleQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
