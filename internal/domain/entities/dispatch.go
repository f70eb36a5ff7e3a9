package entities

import "time"

// DispatchTask is a transient unit of restock work waiting in the priority
// dispatch queue. Tasks order by (priority rank ascending, enqueue time
// ascending); equal-tier tasks dispatch FIFO.
type DispatchTask struct {
	Priority   PriorityTier `json:"priority"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
	MedicineID string       `json:"medicine_id"`
	Quantity   int          `json:"quantity"`
}

// Before reports whether t should dispatch ahead of other.
func (t DispatchTask) Before(other DispatchTask) bool {
	if t.Priority.QueueRank() != other.Priority.QueueRank() {
		return t.Priority.QueueRank() < other.Priority.QueueRank()
	}
	return t.EnqueuedAt.Before(other.EnqueuedAt)
}
