package model

import "time"

// OrderStatus is the lifecycle state of an order. Creation always
// starts at OrderStatusInit; later transitions are driven elsewhere.
type OrderStatus string

const (
	OrderStatusInit             OrderStatus = "INIT"
	OrderStatusCanceled         OrderStatus = "CANCELED"
	OrderStatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	OrderStatusPaymentFailed    OrderStatus = "PAYMENT_FAILED"
	OrderStatusReceived         OrderStatus = "RECEIVED"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
)

var orderStatusText = map[OrderStatus]string{
	OrderStatusInit:             "Order created",
	OrderStatusCanceled:         "Order canceled",
	OrderStatusPaymentCompleted: "Payment completed",
	OrderStatusPaymentFailed:    "Payment failed",
	OrderStatusReceived:         "Order received",
	OrderStatusCompleted:        "Order completed",
}

// Text returns the display string for the status.
func (s OrderStatus) Text() string { return orderStatusText[s] }

// LineItem is one priced unit within an order, one per requested
// occurrence of a product number. Duplicates are never collapsed.
type LineItem struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	ProductNumber string `json:"product_number"`
	Price         int    `json:"price"`
}

// Order is a persisted customer order with its price snapshot.
type Order struct {
	ID           int64       `json:"id"`
	Status       OrderStatus `json:"status"`
	TotalPrice   int         `json:"total_price"`
	RegisteredAt time.Time   `json:"registered_at"`
	LineItems    []LineItem  `json:"line_items"`
	CreatedAt    time.Time   `json:"created_at"`
	ModifiedAt   time.Time   `json:"modified_at"`
}

// NewOrder builds an INIT order from resolved product snapshots.
// Input order and duplicates are preserved, one line item per snapshot,
// and the total is the sum of the snapshot prices. The registration
// time is taken verbatim from the caller so creation stays
// deterministic. An empty snapshot list yields a zero-item order.
func NewOrder(products []Product, registeredAt time.Time) Order {
	items := make([]LineItem, 0, len(products))
	total := 0
	for _, p := range products {
		items = append(items, LineItem{ProductNumber: p.ProductNumber, Price: p.Price})
		total += p.Price
	}
	return Order{
		Status:       OrderStatusInit,
		TotalPrice:   total,
		RegisteredAt: registeredAt,
		LineItems:    items,
	}
}
