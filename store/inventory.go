package store

import (
	"context"
	"time"

	"cafekiosk/model"

	"github.com/lib/pq"
)

// Stock ledger operations. DeductStock is the single point of
// serialization for concurrent writers on the same product: the
// version predicate makes the check-and-decrement one atomic UPDATE.

func (s *PostgresStore) CreateStock(ctx context.Context, st model.Stock) (model.Stock, error) {
	now := time.Now().UTC()
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO stocks (product_number, quantity, version, created_at, modified_at)
		 VALUES ($1, $2, 0, $3, $3) RETURNING id`,
		st.ProductNumber, st.Quantity, now,
	).Scan(&st.ID)
	if err != nil {
		return model.Stock{}, err
	}
	st.Version = 0
	st.CreatedAt = now
	st.ModifiedAt = now
	return st, nil
}

func (s *PostgresStore) FindStocksByNumbers(ctx context.Context, numbers []string) ([]model.Stock, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, product_number, quantity, version, created_at, modified_at
		 FROM stocks WHERE product_number = ANY($1) ORDER BY id`,
		pq.Array(numbers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Stock{}
	for rows.Next() {
		var st model.Stock
		if err := rows.Scan(&st.ID, &st.ProductNumber, &st.Quantity, &st.Version, &st.CreatedAt, &st.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// DeductStock applies the conditional deduct. Zero rows affected means
// either the version moved or the remaining quantity no longer covers
// qty; both surface as ErrVersionMismatch so the caller re-reads.
func (s *PostgresStore) DeductStock(ctx context.Context, productNumber string, expectedVersion int64, qty int) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE stocks SET quantity = quantity - $1, version = version + 1, modified_at = $2
		 WHERE product_number = $3 AND version = $4 AND quantity >= $1`,
		qty, time.Now().UTC(), productNumber, expectedVersion)
	if err != nil {
		return 0, err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if ra == 0 {
		return 0, ErrVersionMismatch
	}
	return expectedVersion + 1, nil
}

// AddStockQuantity restores previously deducted units.
func (s *PostgresStore) AddStockQuantity(ctx context.Context, productNumber string, qty int) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE stocks SET quantity = quantity + $1, version = version + 1, modified_at = $2
		 WHERE product_number = $3`,
		qty, time.Now().UTC(), productNumber)
	if err != nil {
		return err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return ErrStockNotFound
	}
	return nil
}
