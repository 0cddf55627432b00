package sysconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository persists the singleton configuration row. The table is
// keyed on a constant id so writes are always an upsert.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const singletonID = 1

func (r *Repository) Get(ctx context.Context) (Config, error) {
	var cfg Config
	err := r.pool.QueryRow(ctx,
		`SELECT company_name, email, phone, logo, favicon
		 FROM system_configuration WHERE id = $1`, singletonID).
		Scan(&cfg.CompanyName, &cfg.Email, &cfg.Phone, &cfg.Logo, &cfg.Favicon)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, shared.ErrNotFound
	}
	if err != nil {
		return Config{}, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

func (r *Repository) Save(ctx context.Context, cfg Config) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO system_configuration (id, company_name, email, phone, logo, favicon)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   company_name = EXCLUDED.company_name,
		   email        = EXCLUDED.email,
		   phone        = EXCLUDED.phone,
		   logo         = EXCLUDED.logo,
		   favicon      = EXCLUDED.favicon`,
		singletonID, cfg.CompanyName, cfg.Email, cfg.Phone, cfg.Logo, cfg.Favicon)
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}
