package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"cafekiosk/model"
	"cafekiosk/store"
)

// ListingCache caches the selling-products listing. Implementations
// treat failures as misses; the store stays the source of truth.
type ListingCache interface {
	Get(ctx context.Context) ([]model.Product, bool)
	Set(ctx context.Context, products []model.Product)
	Invalidate(ctx context.Context)
}

// ProductService registers products and serves the menu listing.
type ProductService struct {
	store store.Store
	cache ListingCache // nil disables caching
	group singleflight.Group
}

func NewProductService(st store.Store, cache ListingCache) *ProductService {
	return &ProductService{store: st, cache: cache}
}

// CreateProductInput is the caller-supplied part of a new product.
type CreateProductInput struct {
	Type          model.ProductType
	SellingStatus model.SellingStatus
	Name          string
	Price         int
}

// CreateProduct assigns the next sequential product number and saves
// the product. Numbers are zero-padded decimals: 001, 002, ...
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if in.Name == "" {
		return model.Product{}, errors.New("name required")
	}
	if in.Price < 0 {
		return model.Product{}, errors.New("price must be >= 0")
	}

	next, err := s.nextProductNumber(ctx)
	if err != nil {
		return model.Product{}, err
	}
	saved, err := s.store.CreateProduct(ctx, model.Product{
		ProductNumber: next,
		Type:          in.Type,
		SellingStatus: in.SellingStatus,
		Name:          in.Name,
		Price:         in.Price,
	})
	if err != nil {
		return model.Product{}, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return saved, nil
}

// SellingProducts returns the products shown on the menu. Reads go
// through the cache when one is configured, and concurrent misses
// collapse into a single store query.
func (s *ProductService) SellingProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.Get(ctx); ok {
			return products, nil
		}
	}
	v, err, _ := s.group.Do("selling-products", func() (interface{}, error) {
		products, err := s.store.FindProductsBySellingStatuses(ctx, model.DisplayStatuses())
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(ctx, products)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Product), nil
}

func (s *ProductService) nextProductNumber(ctx context.Context) (string, error) {
	latest, err := s.store.LatestProductNumber(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "001", nil
	}
	n, err := strconv.Atoi(latest)
	if err != nil {
		return "", fmt.Errorf("latest product number %q is not numeric: %w", latest, err)
	}
	return fmt.Sprintf("%03d", n+1), nil
}
