package entities

import "time"

// InventoryEscalation records a stock level crossing below the low-stock
// threshold. Deduplicated per (medicine_id, current_stock) so a lingering
// low level raises exactly one escalation until the stock changes.
type InventoryEscalation struct {
	ID               string    `json:"id"`
	MedicineID       string    `json:"medicine_id"`
	MedicineName     string    `json:"medicine_name"`
	CurrentStock     int       `json:"current_stock"`
	Threshold        int       `json:"threshold"`
	RestockTriggered bool      `json:"restock_triggered"`
	CreatedAt        time.Time `json:"created_at"`
}
