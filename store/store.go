package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"cafekiosk/model"
)

// PostgresStore is a Store backed by Postgres.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore opens a connection pool and verifies it.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// CreateProduct inserts a product and returns it with id and
// timestamps filled in.
func (s *PostgresStore) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	now := time.Now().UTC()
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO products (product_number, type, selling_status, name, price, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		p.ProductNumber, string(p.Type), string(p.SellingStatus), p.Name, p.Price, now,
	).Scan(&p.ID)
	if err != nil {
		return model.Product{}, err
	}
	p.CreatedAt = now
	p.ModifiedAt = now
	return p, nil
}

func (s *PostgresStore) FindProductsByNumbers(ctx context.Context, numbers []string) ([]model.Product, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, product_number, type, selling_status, name, price, created_at, modified_at
		 FROM products WHERE product_number = ANY($1) ORDER BY id`,
		pq.Array(numbers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *PostgresStore) FindProductsBySellingStatuses(ctx context.Context, statuses []model.SellingStatus) ([]model.Product, error) {
	ss := make([]string, 0, len(statuses))
	for _, st := range statuses {
		ss = append(ss, string(st))
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, product_number, type, selling_status, name, price, created_at, modified_at
		 FROM products WHERE selling_status = ANY($1) ORDER BY id`,
		pq.Array(ss))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.ProductNumber, &p.Type, &p.SellingStatus, &p.Name, &p.Price, &p.CreatedAt, &p.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LatestProductNumber(ctx context.Context) (string, error) {
	var number string
	err := s.DB.QueryRowContext(ctx,
		`SELECT product_number FROM products ORDER BY id DESC LIMIT 1`).Scan(&number)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

// SaveOrder persists the order and its line items in one transaction
// and returns the order with all identifiers assigned.
func (s *PostgresStore) SaveOrder(ctx context.Context, o model.Order) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (status, total_price, registered_at, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		string(o.Status), o.TotalPrice, o.RegisteredAt, now,
	).Scan(&o.ID); err != nil {
		return model.Order{}, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items (order_id, product_number, price) VALUES ($1, $2, $3) RETURNING id`)
	if err != nil {
		return model.Order{}, err
	}
	defer stmt.Close()
	for i := range o.LineItems {
		o.LineItems[i].OrderID = o.ID
		if err := stmt.QueryRowContext(ctx, o.ID, o.LineItems[i].ProductNumber, o.LineItems[i].Price).Scan(&o.LineItems[i].ID); err != nil {
			return model.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	o.CreatedAt = now
	o.ModifiedAt = now
	return o, nil
}

// FindOrdersByStatusAndRange returns orders with the given status
// registered in [from, to). Line items are not loaded; the statistics
// path only needs the totals.
func (s *PostgresStore) FindOrdersByStatusAndRange(ctx context.Context, status model.OrderStatus, from, to time.Time) ([]model.Order, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, status, total_price, registered_at, created_at, modified_at
		 FROM orders WHERE status = $1 AND registered_at >= $2 AND registered_at < $3 ORDER BY id`,
		string(status), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Status, &o.TotalPrice, &o.RegisteredAt, &o.CreatedAt, &o.ModifiedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveMailHistory(ctx context.Context, h model.MailSendHistory) (model.MailSendHistory, error) {
	now := time.Now().UTC()
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO mail_send_history (from_email, to_email, subject, content, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		h.FromEmail, h.ToEmail, h.Subject, h.Content, now,
	).Scan(&h.ID)
	if err != nil {
		return model.MailSendHistory{}, err
	}
	h.CreatedAt = now
	return h, nil
}
