package store

import (
	"context"
	"sync"
	"time"

	"cafekiosk/model"
)

// MemoryStore is a Store kept entirely in process memory. It backs
// tests and local runs without a database. A single mutex guards all
// state; DeductStock performs its version check and decrement under
// that lock, which gives the same atomicity the Postgres conditional
// UPDATE provides.
type MemoryStore struct {
	mu sync.Mutex

	products []model.Product
	stocks   map[string]*model.Stock
	orders   []model.Order
	mails    []model.MailSendHistory

	nextProductID int64
	nextStockID   int64
	nextOrderID   int64
	nextItemID    int64
	nextMailID    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stocks: make(map[string]*model.Stock)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateProduct(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	p.ID = s.nextProductID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.ModifiedAt = now
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemoryStore) FindProductsByNumbers(_ context.Context, numbers []string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}
	out := []model.Product{}
	for _, p := range s.products {
		if want[p.ProductNumber] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindProductsBySellingStatuses(_ context.Context, statuses []model.SellingStatus) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[model.SellingStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	out := []model.Product{}
	for _, p := range s.products {
		if want[p.SellingStatus] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) LatestProductNumber(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) == 0 {
		return "", nil
	}
	return s.products[len(s.products)-1].ProductNumber, nil
}

func (s *MemoryStore) CreateStock(_ context.Context, st model.Stock) (model.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextStockID++
	st.ID = s.nextStockID
	st.Version = 0
	now := time.Now().UTC()
	st.CreatedAt = now
	st.ModifiedAt = now
	cp := st
	s.stocks[st.ProductNumber] = &cp
	return st, nil
}

func (s *MemoryStore) FindStocksByNumbers(_ context.Context, numbers []string) ([]model.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Stock{}
	for _, n := range numbers {
		if st, ok := s.stocks[n]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeductStock(_ context.Context, productNumber string, expectedVersion int64, qty int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stocks[productNumber]
	if !ok || st.Version != expectedVersion || st.Quantity < qty {
		return 0, ErrVersionMismatch
	}
	st.Quantity -= qty
	st.Version++
	st.ModifiedAt = time.Now().UTC()
	return st.Version, nil
}

func (s *MemoryStore) AddStockQuantity(_ context.Context, productNumber string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stocks[productNumber]
	if !ok {
		return ErrStockNotFound
	}
	st.Quantity += qty
	st.Version++
	st.ModifiedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SaveOrder(_ context.Context, o model.Order) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrderID++
	o.ID = s.nextOrderID
	now := time.Now().UTC()
	o.CreatedAt = now
	o.ModifiedAt = now
	items := make([]model.LineItem, len(o.LineItems))
	copy(items, o.LineItems)
	for i := range items {
		s.nextItemID++
		items[i].ID = s.nextItemID
		items[i].OrderID = o.ID
	}
	o.LineItems = items
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *MemoryStore) FindOrdersByStatusAndRange(_ context.Context, status model.OrderStatus, from, to time.Time) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Order{}
	for _, o := range s.orders {
		if o.Status == status && !o.RegisteredAt.Before(from) && o.RegisteredAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveMailHistory(_ context.Context, h model.MailSendHistory) (model.MailSendHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMailID++
	h.ID = s.nextMailID
	h.CreatedAt = time.Now().UTC()
	s.mails = append(s.mails, h)
	return h, nil
}

// MailHistories returns a snapshot of recorded mails, oldest first.
func (s *MemoryStore) MailHistories() []model.MailSendHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MailSendHistory, len(s.mails))
	copy(out, s.mails)
	return out
}

// Orders returns a snapshot of persisted orders, oldest first.
func (s *MemoryStore) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
