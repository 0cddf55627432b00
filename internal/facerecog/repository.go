package facerecog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for face templates. Embeddings
// are stored as JSONB arrays.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, employee_id, embedding FROM face_template ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list face templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

func (r *Repository) GetByEmployee(ctx context.Context, employeeID int64) (Template, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, employee_id, embedding FROM face_template WHERE employee_id = $1`,
		employeeID)
	tpl, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, shared.ErrNotFound
	}
	return tpl, err
}

func (r *Repository) Create(ctx context.Context, employeeID int64, embedding []float64) (Template, error) {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return Template{}, fmt.Errorf("encode embedding: %w", err)
	}
	tpl := Template{EmployeeID: employeeID, Embedding: embedding}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO face_template (employee_id, embedding) VALUES ($1, $2) RETURNING id`,
		employeeID, raw).Scan(&tpl.ID)
	if err != nil {
		return Template{}, fmt.Errorf("create face template: %w", err)
	}
	return tpl, nil
}

func (r *Repository) UpdateEmbedding(ctx context.Context, employeeID int64, embedding []float64) (Template, error) {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return Template{}, fmt.Errorf("encode embedding: %w", err)
	}
	tpl := Template{EmployeeID: employeeID, Embedding: embedding}
	err = r.pool.QueryRow(ctx,
		`UPDATE face_template SET embedding = $2 WHERE employee_id = $1 RETURNING id`,
		employeeID, raw).Scan(&tpl.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, shared.ErrNotFound
	}
	if err != nil {
		return Template{}, fmt.Errorf("update face template: %w", err)
	}
	return tpl, nil
}

func (r *Repository) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM face_template WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("delete face template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (Template, error) {
	var (
		tpl Template
		raw []byte
	)
	if err := row.Scan(&tpl.ID, &tpl.EmployeeID, &raw); err != nil {
		return Template{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tpl.Embedding); err != nil {
			return Template{}, fmt.Errorf("decode embedding: %w", err)
		}
	}
	return tpl, nil
}
