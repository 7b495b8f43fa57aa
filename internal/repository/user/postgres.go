package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"milsabores/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id::text, national_id, first_name, last_name, email, password_hash, phone,
       COALESCE(birthdate, ''), age, role, region, commune, address, discount_code,
       has_permanent_discount, is_institutional_student, permissions, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	permJSON, err := json.Marshal(u.Permissions)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO users (
    id, national_id, first_name, last_name, email, password_hash, phone, birthdate, age, role,
    region, commune, address, discount_code, has_permanent_discount, is_institutional_student, permissions
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx,
		q,
		u.ID,
		u.NationalID,
		u.FirstName,
		u.LastName,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Phone,
		u.Birthdate,
		u.Age,
		string(u.Role),
		u.Region,
		u.Commune,
		u.Address,
		u.DiscountCode,
		u.HasPermanentDiscount,
		u.IsInstitutionalStudent,
		permJSON,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE national_id = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, nationalID))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("user repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	permJSON, err := json.Marshal(u.Permissions)
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE users
SET first_name = $2, last_name = $3, phone = $4, birthdate = NULLIF($5, ''), age = $6,
    role = $7, region = $8, commune = $9, address = $10, discount_code = $11,
    has_permanent_discount = $12, is_institutional_student = $13, permissions = $14
WHERE id = $1
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx,
		q,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Birthdate,
		u.Age,
		string(u.Role),
		u.Region,
		u.Commune,
		u.Address,
		u.DiscountCode,
		u.HasPermanentDiscount,
		u.IsInstitutionalStudent,
		permJSON,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("user repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	var permJSON []byte
	err := row.Scan(
		&u.ID,
		&u.NationalID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Birthdate,
		&u.Age,
		&role,
		&u.Region,
		&u.Commune,
		&u.Address,
		&u.DiscountCode,
		&u.HasPermanentDiscount,
		&u.IsInstitutionalStudent,
		&permJSON,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	u.Role = domain.Role(role)
	if len(permJSON) > 0 {
		if err := json.Unmarshal(permJSON, &u.Permissions); err != nil {
			r.logger.Printf("user repo: permissions unmarshal id=%s error=%v", u.ID, err)
			u.Permissions = nil
		}
	}
	return &u, nil
}
