package cart

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

func (r *postgresRepo) Load(ctx context.Context, owner string) ([]domain.LineItem, error) {
	const q = `SELECT lines FROM carts WHERE owner_key = $1`
	var payload []byte
	err := r.pool.QueryRow(ctx, q, owner).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("cart repo: load owner=%s error=%v", owner, err)
		return nil, err
	}
	lines, ok := decodeLines(payload)
	if !ok {
		// Corrupt persisted data is treated as an empty cart rather
		// than surfaced to the caller.
		r.logger.Printf("cart repo: load owner=%s corrupt payload, treating as empty", owner)
		return nil, nil
	}
	return lines, nil
}

func (r *postgresRepo) Save(ctx context.Context, owner string, lines []domain.LineItem) error {
	if lines == nil {
		lines = []domain.LineItem{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO carts (owner_key, lines, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (owner_key) DO UPDATE SET lines = EXCLUDED.lines, updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, owner, payload); err != nil {
		r.logger.Printf("cart repo: save owner=%s error=%v", owner, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, owner string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE owner_key = $1`, owner); err != nil {
		r.logger.Printf("cart repo: delete owner=%s error=%v", owner, err)
		return err
	}
	return nil
}

// decodeLines parses a stored cart document and enforces the line
// invariants: positive quantity, non-empty product id. It reports false on
// malformed JSON.
func decodeLines(payload []byte) ([]domain.LineItem, bool) {
	if len(payload) == 0 {
		return nil, true
	}
	var lines []domain.LineItem
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, false
	}
	valid := lines[:0]
	for _, li := range lines {
		if li.ProductID == "" || li.Quantity < 1 {
			continue
		}
		valid = append(valid, li)
	}
	return valid, true
}
