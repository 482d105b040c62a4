package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cafekiosk/model"
	"cafekiosk/store"
)

const defaultReserveAttempts = 3

// OrderService creates orders: it resolves requested product numbers
// into price snapshots, reserves stock for the stock-tracked ones and
// persists the resulting order as one logical unit of work.
type OrderService struct {
	store           store.Store
	reserveAttempts int
}

// NewOrderService wires an OrderService. reserveAttempts bounds the
// optimistic retry loop; values below 1 fall back to the default.
func NewOrderService(st store.Store, reserveAttempts int) *OrderService {
	if reserveAttempts < 1 {
		reserveAttempts = defaultReserveAttempts
	}
	return &OrderService{store: st, reserveAttempts: reserveAttempts}
}

// CreateOrder turns an ordered, possibly-duplicated list of product
// numbers into a persisted INIT order. Either the order is saved with
// every required stock deduction applied, or nothing is mutated: a
// persistence failure after a successful reservation reverses the
// deductions before returning.
func (s *OrderService) CreateOrder(ctx context.Context, productNumbers []string, registeredAt time.Time) (model.Order, error) {
	products, err := s.resolveProducts(ctx, productNumbers)
	if err != nil {
		return model.Order{}, err
	}

	release, err := s.reserveStock(ctx, products)
	if err != nil {
		return model.Order{}, err
	}

	order := model.NewOrder(products, registeredAt)
	saved, err := s.store.SaveOrder(ctx, order)
	if err != nil {
		// The deductions are already durable; compensation must run
		// even when the request context is gone.
		release(context.WithoutCancel(ctx))
		return model.Order{}, &model.PersistenceError{Err: err}
	}
	return saved, nil
}

// resolveProducts maps the requested numbers to product snapshots,
// preserving request order and duplicates. The catalog lookup is
// batched over the distinct number set and re-expanded afterwards.
func (s *OrderService) resolveProducts(ctx context.Context, numbers []string) ([]model.Product, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	distinct := distinctStrings(numbers)
	found, err := s.store.FindProductsByNumbers(ctx, distinct)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]model.Product, len(found))
	for _, p := range found {
		byNumber[p.ProductNumber] = p
	}
	out := make([]model.Product, 0, len(numbers))
	for _, n := range numbers {
		p, ok := byNumber[n]
		if !ok {
			return nil, &model.ProductNotFoundError{ProductNumber: n}
		}
		out = append(out, p)
	}
	return out, nil
}

// deduction records one applied stock decrement so it can be reversed.
type deduction struct {
	productNumber string
	qty           int
}

// releaseFunc reverses a successful reservation.
type releaseFunc func(context.Context)

func noopRelease(context.Context) {}

// reserveStock validates and deducts the net per-product demand of one
// order. Every distinct number is validated against a fresh batch read
// before any row is touched, so an order that cannot be fully served
// leaves all stock untouched. Committing happens per row through the
// ledger's conditional deduct; losing that race reverses the deducts
// applied so far and retries from the read, up to the attempt budget.
func (s *OrderService) reserveStock(ctx context.Context, products []model.Product) (releaseFunc, error) {
	demand := make(map[string]int)
	var numbers []string // distinct tracked numbers, request order
	for _, p := range products {
		if !p.Type.StockTracked() {
			continue
		}
		if _, seen := demand[p.ProductNumber]; !seen {
			numbers = append(numbers, p.ProductNumber)
		}
		demand[p.ProductNumber]++
	}
	if len(numbers) == 0 {
		return noopRelease, nil
	}

	for attempt := 1; attempt <= s.reserveAttempts; attempt++ {
		stocks, err := s.store.FindStocksByNumbers(ctx, numbers)
		if err != nil {
			return nil, err
		}
		byNumber := make(map[string]model.Stock, len(stocks))
		for _, st := range stocks {
			byNumber[st.ProductNumber] = st
		}

		// Validate every demand before mutating anything.
		for _, n := range numbers {
			st, ok := byNumber[n]
			if !ok || st.QuantityLessThan(demand[n]) {
				return nil, &model.InsufficientStockError{ProductNumber: n}
			}
		}

		applied := make([]deduction, 0, len(numbers))
		conflicted := false
		for _, n := range numbers {
			if _, err := s.store.DeductStock(ctx, n, byNumber[n].Version, demand[n]); err != nil {
				if errors.Is(err, store.ErrVersionMismatch) {
					conflicted = true
					break
				}
				s.restoreDeductions(ctx, applied)
				return nil, err
			}
			applied = append(applied, deduction{productNumber: n, qty: demand[n]})
		}
		if !conflicted {
			return func(ctx context.Context) { s.restoreDeductions(ctx, applied) }, nil
		}

		// A concurrent writer moved one of the rows; undo this
		// attempt's deducts and re-read.
		s.restoreDeductions(ctx, applied)
		slog.Debug("stock_reserve_conflict", "attempt", attempt, "products", numbers)
	}
	return nil, model.ErrConcurrencyConflict
}

func (s *OrderService) restoreDeductions(ctx context.Context, applied []deduction) {
	for _, d := range applied {
		if err := s.store.AddStockQuantity(ctx, d.productNumber, d.qty); err != nil {
			slog.Error("stock_restore_failed",
				"product_number", d.productNumber,
				"quantity", d.qty,
				"error", err,
			)
		}
	}
}

func distinctStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
