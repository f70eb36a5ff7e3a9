package ports

import "context"

// Fulfiller is the external warehouse collaborator that carries out a
// restock. Failures are expected and must be caught at the call boundary,
// never propagated as a crash.
type Fulfiller interface {
	// Fulfill requests delivery of quantity units of a medicine.
	Fulfill(ctx context.Context, medicineID string, quantity int) error
}
