package store

import (
	"context"
	"errors"
	"time"

	"cafekiosk/model"
)

// ErrVersionMismatch is returned by DeductStock when the stock row was
// modified since the caller read it, or no longer covers the quantity.
var ErrVersionMismatch = errors.New("stock version mismatch")

// ErrStockNotFound is returned when a stock mutation targets a product
// number that has no stock row.
var ErrStockNotFound = errors.New("stock not found")

// Store is the persistence boundary for catalog, stock, orders and
// mail history.
type Store interface {
	// Catalog.
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	FindProductsByNumbers(ctx context.Context, numbers []string) ([]model.Product, error)
	FindProductsBySellingStatuses(ctx context.Context, statuses []model.SellingStatus) ([]model.Product, error)
	// LatestProductNumber returns the most recently registered product
	// number, or "" when the catalog is empty.
	LatestProductNumber(ctx context.Context) (string, error)

	// Stock ledger.
	CreateStock(ctx context.Context, s model.Stock) (model.Stock, error)
	FindStocksByNumbers(ctx context.Context, numbers []string) ([]model.Stock, error)
	// DeductStock atomically checks that the row still carries
	// expectedVersion and at least qty units, then applies
	// quantity -= qty and bumps the version. It returns the new
	// version, or ErrVersionMismatch without mutating anything.
	DeductStock(ctx context.Context, productNumber string, expectedVersion int64, qty int) (int64, error)
	// AddStockQuantity restores qty units, bumping the version. Used
	// for compensating rollbacks after a failed order.
	AddStockQuantity(ctx context.Context, productNumber string, qty int) error

	// Orders.
	SaveOrder(ctx context.Context, o model.Order) (model.Order, error)
	FindOrdersByStatusAndRange(ctx context.Context, status model.OrderStatus, from, to time.Time) ([]model.Order, error)

	// Mail audit.
	SaveMailHistory(ctx context.Context, h model.MailSendHistory) (model.MailSendHistory, error)

	Close() error
}
