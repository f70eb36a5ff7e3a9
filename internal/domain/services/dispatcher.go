package services

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ersonp/restock-core/internal/domain/entities"
	"github.com/ersonp/restock-core/internal/domain/ports"
)

const (
	criticalDispatchSlots = 2
	warningQueueDepthMax  = 4
)

// taskHeap is a min-heap ordering dispatch tasks by tier rank, then by
// enqueue time within a tier.
type taskHeap []entities.DispatchTask

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].Before(h[j]) }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(entities.DispatchTask)) }
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	task := old[n-1]
	*h = old[:n-1]
	return task
}

// DispatchReport summarizes one drain pass.
type DispatchReport struct {
	Dispatched int `json:"dispatched"`
	Deferred   int `json:"deferred"`
}

// DispatchService holds restock work in a tiered priority queue and
// executes it against the warehouse under per-tier capacity rules:
// CRITICAL runs concurrently with at most two in flight, WARNING only
// dispatches while the remaining queue depth stays at or below four, and
// STABLE is unbounded. Fulfillment failures are logged, never propagated.
type DispatchService struct {
	db        ports.RelationalDB
	fulfiller ports.Fulfiller

	mu    sync.Mutex
	queue taskHeap

	criticalSlots *semaphore.Weighted
	wg            sync.WaitGroup
	now           func() time.Time
}

// NewDispatchService creates a dispatcher backed by the given warehouse
// fulfiller.
func NewDispatchService(db ports.RelationalDB, fulfiller ports.Fulfiller) *DispatchService {
	return &DispatchService{
		db:            db,
		fulfiller:     fulfiller,
		queue:         taskHeap{},
		criticalSlots: semaphore.NewWeighted(criticalDispatchSlots),
		now:           time.Now,
	}
}

// Enqueue adds a task to the queue. Safe for concurrent use.
func (s *DispatchService) Enqueue(task entities.DispatchTask) {
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = s.now()
	}
	s.mu.Lock()
	heap.Push(&s.queue, task)
	s.mu.Unlock()
}

// QueueDepth returns the number of tasks currently waiting.
func (s *DispatchService) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Drain pops tasks in priority order and dispatches them. WARNING tasks
// popped while the backlog exceeds the depth gate are requeued intact and
// wait for a later pass; the drain moves past them to lower tiers.
func (s *DispatchService) Drain(ctx context.Context) DispatchReport {
	var report DispatchReport
	var deferred []entities.DispatchTask

	for {
		task, depth, ok := s.pop()
		if !ok {
			break
		}

		switch task.Priority {
		case entities.PriorityCritical:
			if err := s.criticalSlots.Acquire(ctx, 1); err != nil {
				// Canceled context: put the task back and stop draining.
				s.Enqueue(task)
				s.requeue(deferred)
				return report
			}
			s.wg.Add(1)
			go func(t entities.DispatchTask) {
				defer s.wg.Done()
				defer s.criticalSlots.Release(1)
				s.dispatch(ctx, t)
			}(task)
			report.Dispatched++

		case entities.PriorityWarning:
			if depth > warningQueueDepthMax {
				deferred = append(deferred, task)
				report.Deferred++
				continue
			}
			s.dispatch(ctx, task)
			report.Dispatched++

		default:
			s.dispatch(ctx, task)
			report.Dispatched++
		}
	}

	s.requeue(deferred)
	return report
}

// Close waits for all in-flight dispatches to finish.
func (s *DispatchService) Close() {
	s.wg.Wait()
}

// pop removes the highest-priority task and reports the depth remaining
// after removal.
func (s *DispatchService) pop() (entities.DispatchTask, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Len() == 0 {
		return entities.DispatchTask{}, 0, false
	}
	task := heap.Pop(&s.queue).(entities.DispatchTask)
	return task, s.queue.Len(), true
}

func (s *DispatchService) requeue(tasks []entities.DispatchTask) {
	if len(tasks) == 0 {
		return
	}
	s.mu.Lock()
	for _, task := range tasks {
		heap.Push(&s.queue, task)
	}
	s.mu.Unlock()
}

// dispatch marks the medicine's open escalation as handled, then calls the
// warehouse. The escalation flip precedes the call so a fulfillment retry
// never double-counts the same escalation.
func (s *DispatchService) dispatch(ctx context.Context, task entities.DispatchTask) {
	if err := s.db.MarkLatestEscalationTriggered(ctx, task.MedicineID); err != nil {
		s.logDispatch(ctx, entities.FulfillDispatchFailed,
			fmt.Sprintf("Marking escalation for %s: %v", task.MedicineID, err))
		return
	}

	if err := s.fulfiller.Fulfill(ctx, task.MedicineID, task.Quantity); err != nil {
		s.logDispatch(ctx, entities.FulfillDispatchFailed,
			fmt.Sprintf("Fulfillment for %s qty %d failed: %v", task.MedicineID, task.Quantity, err))
		return
	}

	s.logDispatch(ctx, entities.FulfillDispatched,
		fmt.Sprintf("Dispatched %s restock qty %d at %s priority", task.MedicineID, task.Quantity, task.Priority))
}

func (s *DispatchService) logDispatch(ctx context.Context, status, message string) {
	log := &entities.FulfillmentLog{
		ID:      uuid.New().String(),
		Status:  status,
		Message: message,
	}
	// Logging failures have nowhere further to report.
	_ = s.db.AppendFulfillmentLog(ctx, log)
}
