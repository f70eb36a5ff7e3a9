package entities

import "time"

// Medicine is an inventory item the governor watches.
type Medicine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is one consumption record used by the forecasting window queries.
type Order struct {
	ID         string    `json:"id"`
	MedicineID string    `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	OrderDate  time.Time `json:"order_date"`
}
