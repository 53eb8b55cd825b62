// Package store holds the source side of the order mapping example.
package store

import (
	"time"
)

// Product is an item available for sale. Prices are in cents.
type Product struct {
	ID         int64
	SKU        string
	Name       string
	PriceCents int64
	Tags       []string
	CreatedAt  time.Time
}

// Customer places orders.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
}

// Order is a transaction made by a customer.
type Order struct {
	ID         int64
	Customer   Customer
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	Notes      map[string]string
	OrderedAt  time.Time
}

// OrderItem snapshots a product line at purchase time.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice int64
}

// OrderStatus tracks an order's lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)
