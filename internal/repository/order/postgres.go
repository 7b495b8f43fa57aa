package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"milsabores/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO orders (id, user_id, lines, subtotal, total, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, user_id::text, lines, subtotal, total, status, created_at
`
	return r.scanOrder(r.pool.QueryRow(ctx, q, o.ID, o.UserID, linesJSON, o.Subtotal, o.Total, o.Status))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, lines, subtotal, total, status, created_at
FROM orders
WHERE id = $1
`
	return r.scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, lines, subtotal, total, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var linesJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &linesJSON, &o.Subtotal, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: scan error=%v", err)
		return nil, err
	}
	if len(linesJSON) > 0 {
		if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
			r.logger.Printf("order repo: lines unmarshal id=%s error=%v", o.ID, err)
			o.Lines = nil
		}
	}
	return &o, nil
}
