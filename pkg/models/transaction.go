package models

import "time"

// TransactionStatus represents where a laundry order is in its lifecycle.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusInProgress TransactionStatus = "in_progress"
	StatusCompleted  TransactionStatus = "completed"
	StatusPickedUp   TransactionStatus = "picked_up"
	StatusCancelled  TransactionStatus = "cancelled"
)

// StatusAll is the categorical-filter sentinel that matches every status.
const StatusAll = "all"

// ValidTransactionStatus reports whether s is a known lifecycle status.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// Transaction represents a single laundry order.
// Customer and Service are embedded one level deep, matching the API shape.
type Transaction struct {
	ID         int               `json:"id"`
	Customer   Customer          `json:"customer"`
	Service    Service           `json:"service"`
	Quantity   float64           `json:"quantity"`
	TotalPrice float64           `json:"total_price"`
	Status     TransactionStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
