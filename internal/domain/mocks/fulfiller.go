package mocks

import (
	"context"
	"sync"
)

// FulfillCall records one invocation of Fulfill.
type FulfillCall struct {
	MedicineID string
	Quantity   int
}

// Fulfiller is a recording fake of ports.Fulfiller.
type Fulfiller struct {
	mu    sync.Mutex
	Calls []FulfillCall
	Err   error
}

func (f *Fulfiller) Fulfill(_ context.Context, medicineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, FulfillCall{MedicineID: medicineID, Quantity: quantity})
	return f.Err
}

// CallCount returns the number of recorded fulfillment calls.
func (f *Fulfiller) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// Recorded returns a copy of the recorded calls.
func (f *Fulfiller) Recorded() []FulfillCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FulfillCall, len(f.Calls))
	copy(out, f.Calls)
	return out
}
