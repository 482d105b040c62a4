package model

import "time"

// ProductType distinguishes product categories. Bottled and bakery
// products have finite inventory; handmade drinks are made to order.
type ProductType string

const (
	ProductTypeHandmade ProductType = "HANDMADE"
	ProductTypeBottle   ProductType = "BOTTLE"
	ProductTypeBakery   ProductType = "BAKERY"
)

var productTypeText = map[ProductType]string{
	ProductTypeHandmade: "Handmade drink",
	ProductTypeBottle:   "Bottled drink",
	ProductTypeBakery:   "Bakery item",
}

// Text returns the display string for the type.
func (t ProductType) Text() string { return productTypeText[t] }

// StockTracked reports whether orders for this type must deduct stock.
func (t ProductType) StockTracked() bool {
	return t == ProductTypeBottle || t == ProductTypeBakery
}

// SellingStatus controls whether a product shows up for sale.
type SellingStatus string

const (
	SellingStatusSelling SellingStatus = "SELLING"
	SellingStatusHold    SellingStatus = "HOLD"
	SellingStatusStop    SellingStatus = "STOP_SELLING"
)

var sellingStatusText = map[SellingStatus]string{
	SellingStatusSelling: "On sale",
	SellingStatusHold:    "On hold",
	SellingStatusStop:    "No longer sold",
}

// Text returns the display string for the status.
func (s SellingStatus) Text() string { return sellingStatusText[s] }

// DisplayStatuses lists the selling statuses shown on the menu.
func DisplayStatuses() []SellingStatus {
	return []SellingStatus{SellingStatusSelling, SellingStatusHold}
}

// Product is a catalog entry. Orders capture a price snapshot at
// resolution time; they never hold a live reference to the row.
type Product struct {
	ID            int64         `json:"id"`
	ProductNumber string        `json:"product_number"`
	Type          ProductType   `json:"type"`
	SellingStatus SellingStatus `json:"selling_status"`
	Name          string        `json:"name"`
	Price         int           `json:"price"`
	CreatedAt     time.Time     `json:"created_at"`
	ModifiedAt    time.Time     `json:"modified_at"`
}
