package service

import (
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
)

// DefaultQueueCapacity bounds the request queue when configuration supplies
// no limit, preventing unbounded memory growth between drains.
const DefaultQueueCapacity = 10000

// Request is one queued attestation computation: which document set to
// attest and the initial KPI value to fold from.
type Request struct {
	ID            uuid.UUID
	DocumentSetID string
	Initial       *apd.Decimal
	EnqueuedAt    time.Time
}

// RequestQueue is a thread-safe, bounded, deduplicating FIFO of pending
// attestation requests, shared between the inbound surface and the drain
// loop. A request for a document set that is already queued is dropped; at
// capacity the oldest request is evicted.
type RequestQueue struct {
	mu       sync.RWMutex
	pending  map[string]Request // keyed by document set for O(1) dedup
	order    []string           // FIFO order for eviction and draining
	capacity int
}

// NewRequestQueue creates a queue holding at most capacity requests.
// Non-positive capacities fall back to DefaultQueueCapacity.
func NewRequestQueue(capacity int) *RequestQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &RequestQueue{
		pending:  make(map[string]Request),
		order:    make([]string, 0),
		capacity: capacity,
	}
}

// Enqueue adds a request if its document set is not already queued. Returns
// true if the request was added. When the queue is full, the oldest request
// is evicted first.
func (q *RequestQueue) Enqueue(req Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.pending[req.DocumentSetID]; exists {
		return false
	}

	if len(q.pending) >= q.capacity && len(q.order) > 0 {
		oldest := q.order[0]
		delete(q.pending, oldest)
		q.order = q.order[1:]
	}

	q.pending[req.DocumentSetID] = req
	q.order = append(q.order, req.DocumentSetID)
	return true
}

// DequeueAll removes and returns every queued request in FIFO order.
func (q *RequestQueue) DequeueAll() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}

	requests := make([]Request, 0, len(q.order))
	for _, key := range q.order {
		requests = append(requests, q.pending[key])
	}

	q.pending = make(map[string]Request)
	q.order = make([]string, 0)
	return requests
}

// Len returns the number of queued requests.
func (q *RequestQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}

// Clear drops every queued request.
func (q *RequestQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = make(map[string]Request)
	q.order = make([]string, 0)
}
