package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cafekiosk/model"
)

func TestMemoryStoreDeductStock(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.CreateStock(ctx, model.Stock{ProductNumber: "001", Quantity: 5}); err != nil {
		t.Fatalf("CreateStock failed: %v", err)
	}

	newVersion, err := s.DeductStock(ctx, "001", 0, 2)
	if err != nil {
		t.Fatalf("DeductStock failed: %v", err)
	}
	if newVersion != 1 {
		t.Fatalf("expected version 1, got %d", newVersion)
	}

	// Stale version is refused without touching the quantity.
	if _, err := s.DeductStock(ctx, "001", 0, 1); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
	// So is a deduction larger than what is left.
	if _, err := s.DeductStock(ctx, "001", 1, 4); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}

	stocks, err := s.FindStocksByNumbers(ctx, []string{"001"})
	if err != nil {
		t.Fatalf("FindStocksByNumbers failed: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Quantity != 3 || stocks[0].Version != 1 {
		t.Fatalf("unexpected stock state: %+v", stocks)
	}
}

func TestMemoryStoreConcurrentDeducts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.CreateStock(ctx, model.Stock{ProductNumber: "001", Quantity: 10}); err != nil {
		t.Fatalf("CreateStock failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				stocks, err := s.FindStocksByNumbers(ctx, []string{"001"})
				if err != nil || len(stocks) != 1 {
					return
				}
				if stocks[0].Quantity < 1 {
					return
				}
				if _, err := s.DeductStock(ctx, "001", stocks[0].Version, 1); err == nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	stocks, _ := s.FindStocksByNumbers(ctx, []string{"001"})
	if stocks[0].Quantity < 0 {
		t.Fatalf("quantity went negative: %d", stocks[0].Quantity)
	}
	if stocks[0].Quantity != 0 {
		t.Fatalf("expected all stock consumed, got %d", stocks[0].Quantity)
	}
}

func TestMemoryStoreAddStockQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.CreateStock(ctx, model.Stock{ProductNumber: "001", Quantity: 1}); err != nil {
		t.Fatalf("CreateStock failed: %v", err)
	}

	if err := s.AddStockQuantity(ctx, "001", 4); err != nil {
		t.Fatalf("AddStockQuantity failed: %v", err)
	}
	stocks, _ := s.FindStocksByNumbers(ctx, []string{"001"})
	if stocks[0].Quantity != 5 || stocks[0].Version != 1 {
		t.Fatalf("unexpected stock state: %+v", stocks[0])
	}

	if err := s.AddStockQuantity(ctx, "999", 1); !errors.Is(err, ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
}

func TestMemoryStoreLatestProductNumber(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.LatestProductNumber(ctx)
	if err != nil || got != "" {
		t.Fatalf("expected empty number on empty catalog, got %q err %v", got, err)
	}

	for _, n := range []string{"001", "002", "003"} {
		if _, err := s.CreateProduct(ctx, model.Product{ProductNumber: n, Name: "p" + n}); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}
	got, err = s.LatestProductNumber(ctx)
	if err != nil || got != "003" {
		t.Fatalf("expected 003, got %q err %v", got, err)
	}
}

func TestMemoryStoreFindOrdersByStatusAndRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	day := time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)
	seed := func(status model.OrderStatus, at time.Time, total int) {
		if _, err := s.SaveOrder(ctx, model.Order{Status: status, TotalPrice: total, RegisteredAt: at}); err != nil {
			t.Fatalf("SaveOrder failed: %v", err)
		}
	}
	seed(model.OrderStatusPaymentCompleted, day.Add(-time.Second), 1000)
	seed(model.OrderStatusPaymentCompleted, day, 2000)
	seed(model.OrderStatusPaymentCompleted, day.Add(23*time.Hour), 3000)
	seed(model.OrderStatusPaymentCompleted, day.Add(24*time.Hour), 4000)
	seed(model.OrderStatusInit, day.Add(time.Hour), 5000)

	orders, err := s.FindOrdersByStatusAndRange(ctx, model.OrderStatusPaymentCompleted, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FindOrdersByStatusAndRange failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].TotalPrice+orders[1].TotalPrice != 5000 {
		t.Fatalf("unexpected totals: %+v", orders)
	}
}

func TestMemoryStoreSaveOrderAssignsItemIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	saved, err := s.SaveOrder(ctx, model.Order{
		Status:     model.OrderStatusInit,
		TotalPrice: 4000,
		LineItems: []model.LineItem{
			{ProductNumber: "001", Price: 1000},
			{ProductNumber: "002", Price: 3000},
		},
	})
	if err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected order ID to be assigned")
	}
	for _, item := range saved.LineItems {
		if item.ID == 0 || item.OrderID != saved.ID {
			t.Fatalf("unexpected line item: %+v", item)
		}
	}
}
