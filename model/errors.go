package model

import (
	"errors"
	"fmt"
)

// ErrConcurrencyConflict means a stock reservation lost its optimistic
// race more times than the retry budget allows. The request is safe to
// resubmit unchanged.
var ErrConcurrencyConflict = errors.New("stock reservation conflicted with concurrent orders, please retry")

// ProductNotFoundError is returned when a requested product number has
// no catalog match. The order aborts before any stock mutation.
type ProductNotFoundError struct {
	ProductNumber string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductNumber)
}

// InsufficientStockError is returned when the aggregate demand for one
// product number exceeds its available quantity. No stock row is
// mutated, including rows for other numbers in the same order.
type InsufficientStockError struct {
	ProductNumber string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductNumber)
}

// PersistenceError wraps a storage failure that happened after a
// successful reservation. By the time the caller sees it, the
// reservation has already been reversed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
