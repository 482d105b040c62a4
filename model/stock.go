package model

import "time"

// Stock is the inventory row for one stock-tracked product.
// Quantity never goes negative; Version increments on every mutation
// and is the optimistic-concurrency token for conditional deducts.
type Stock struct {
	ID            int64     `json:"id"`
	ProductNumber string    `json:"product_number"`
	Quantity      int       `json:"quantity"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// QuantityLessThan reports whether available quantity cannot cover qty.
func (s Stock) QuantityLessThan(qty int) bool {
	return s.Quantity < qty
}
