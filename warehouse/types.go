// Package warehouse holds the target side of the order mapping example.
package warehouse

import (
	"time"
)

// Customer is the warehouse view of a buyer.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
}

// Order is the warehouse view of a purchase.
type Order struct {
	ID         int64
	Customer   Customer
	Status     Status
	TotalCents int64
	Items      []Line
	Notes      map[string]string
	OrderedAt  string
	Source     string
}

// Line is a single shipped product line.
type Line struct {
	ProductID int64
	Name      string
	Quantity  int
}

// Status is the fulfilment state. It is a superset of the store's order status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
)

// Clock formats timestamps for the warehouse ledger.
type Clock interface {
	FormatTime(t time.Time) string
}
