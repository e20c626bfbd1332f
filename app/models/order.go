package models

import "time"

// Order statuses. Status is derived once at creation and never transitions;
// there is no fulfilment workflow in this store.
const (
	StatusPending          = "pending"
	StatusAwaitingShipment = "awaiting_shipment"
)

// OrderItem is one line of the submitted cart. Price is the client-submitted
// unit price, kept exactly as received.
type OrderItem struct {
	ID    string  `json:"id"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// Shipping holds the delivery address from the checkout form.
type Shipping struct {
	City    string `json:"city"`
	Address string `json:"address"`
	Note    string `json:"note,omitempty"`
}

// Order is a persisted record of one checkout submission. ID and Number are
// assigned at creation and never change; Items and Total are stored exactly
// as submitted, never recomputed from the catalogue.
type Order struct {
	ID        string      `json:"id"`
	Number    string      `json:"number"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Shipping  Shipping    `json:"shipping"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Method    string      `json:"method"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsCOD reports whether the order pays cash on delivery and therefore has
// a waybill.
func (o Order) IsCOD() bool {
	return o.Status == StatusAwaitingShipment
}
