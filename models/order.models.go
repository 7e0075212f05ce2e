package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryFee is the flat fee added to the cart total at checkout.
const DeliveryFee = 5.00

// OrderStatus is the lifecycle state of an order. Orders only move
// forward: pending -> accepted -> delivering -> delivered.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDelivering, StatusDelivered:
		return true
	}
	return false
}

// Next returns the status that follows s in the lifecycle. The second
// return is false for the terminal status (delivered) and unknown values.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusAccepted, true
	case StatusAccepted:
		return StatusDelivering, true
	case StatusDelivering:
		return StatusDelivered, true
	}
	return "", false
}

// CanTransition reports whether moving from s to target is a single legal
// forward step. Backward moves and skips are never legal.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Order represents a customer's order. DeliveryPersonID is nil until a
// delivery worker accepts the order and is set exactly once at that point.
type Order struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber      string              `bson:"order_number" json:"order_number"`
	CustomerID       primitive.ObjectID  `bson:"customer_id" json:"customer_id"`
	Address          string              `bson:"address" json:"address"`
	PaymentMethod    PaymentMethod       `bson:"payment_method" json:"payment_method"`
	Status           OrderStatus         `bson:"status" json:"status"`
	DeliveryPersonID *primitive.ObjectID `bson:"delivery_person_id,omitempty" json:"delivery_person_id,omitempty"`
	Total            float64             `bson:"total" json:"total"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
}

// OrderItem is one document of the order_items collection. UnitPrice is
// the product price at order time; later price changes do not touch it.
type OrderItem struct {
	OrderID   primitive.ObjectID `bson:"order_id" json:"order_id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}
