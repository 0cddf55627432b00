package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for reference data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Sectors ---

func (r *Repository) ListSectors(ctx context.Context) ([]Sector, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM sector ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var out []Sector
	for rows.Next() {
		var s Sector
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetSector(ctx context.Context, id int64) (Sector, error) {
	var s Sector
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM sector WHERE id = $1`, id).
		Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sector{}, shared.ErrNotFound
	}
	if err != nil {
		return Sector{}, fmt.Errorf("get sector: %w", err)
	}
	return s, nil
}

func (r *Repository) CreateSector(ctx context.Context, name string) (Sector, error) {
	var s Sector
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sector (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&s.ID, &s.Name)
	if err != nil {
		return Sector{}, fmt.Errorf("create sector: %w", err)
	}
	return s, nil
}

func (r *Repository) UpdateSector(ctx context.Context, id int64, name string) (Sector, error) {
	var s Sector
	err := r.pool.QueryRow(ctx,
		`UPDATE sector SET name = $2 WHERE id = $1 RETURNING id, name`, id, name).
		Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sector{}, shared.ErrNotFound
	}
	if err != nil {
		return Sector{}, fmt.Errorf("update sector: %w", err)
	}
	return s, nil
}

func (r *Repository) DeleteSector(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sector WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Jobs ---

func (r *Repository) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT j.id, j.name, j.sector_id, s.id, s.name
		FROM job j
		JOIN sector s ON s.id = j.sector_id
		ORDER BY j.name`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		var s Sector
		if err := rows.Scan(&j.ID, &j.Name, &j.SectorID, &s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Sector = &s
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *Repository) GetJob(ctx context.Context, id int64) (Job, error) {
	var j Job
	var s Sector
	err := r.pool.QueryRow(ctx, `
		SELECT j.id, j.name, j.sector_id, s.id, s.name
		FROM job j
		JOIN sector s ON s.id = j.sector_id
		WHERE j.id = $1`, id).
		Scan(&j.ID, &j.Name, &j.SectorID, &s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, shared.ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("get job: %w", err)
	}
	j.Sector = &s
	return j, nil
}

func (r *Repository) CreateJob(ctx context.Context, name string, sectorID int64) (Job, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO job (name, sector_id) VALUES ($1, $2) RETURNING id`,
		name, sectorID).Scan(&id)
	if err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}
	return r.GetJob(ctx, id)
}

func (r *Repository) UpdateJob(ctx context.Context, id int64, name string, sectorID int64) (Job, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE job SET name = $2, sector_id = $3 WHERE id = $1`, id, name, sectorID)
	if err != nil {
		return Job{}, fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Job{}, shared.ErrNotFound
	}
	return r.GetJob(ctx, id)
}

func (r *Repository) DeleteJob(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Shifts ---

func (r *Repository) ListShifts(ctx context.Context) ([]Shift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, type, working_hours, working_days
		FROM shift ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var s Shift
		if err := rows.Scan(&s.ID, &s.Description, &s.Type, &s.WorkingHours, &s.WorkingDays); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetShift(ctx context.Context, id int64) (Shift, error) {
	var s Shift
	err := r.pool.QueryRow(ctx, `
		SELECT id, description, type, working_hours, working_days
		FROM shift WHERE id = $1`, id).
		Scan(&s.ID, &s.Description, &s.Type, &s.WorkingHours, &s.WorkingDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, shared.ErrNotFound
	}
	if err != nil {
		return Shift{}, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

func (r *Repository) CreateShift(ctx context.Context, in Shift) (Shift, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO shift (description, type, working_hours, working_days)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		in.Description, in.Type, in.WorkingHours, in.WorkingDays).Scan(&in.ID)
	if err != nil {
		return Shift{}, fmt.Errorf("create shift: %w", err)
	}
	return in, nil
}

func (r *Repository) UpdateShift(ctx context.Context, in Shift) (Shift, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE shift SET description = $2, type = $3, working_hours = $4, working_days = $5
		WHERE id = $1`,
		in.ID, in.Description, in.Type, in.WorkingHours, in.WorkingDays)
	if err != nil {
		return Shift{}, fmt.Errorf("update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Shift{}, shared.ErrNotFound
	}
	return in, nil
}

func (r *Repository) DeleteShift(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shift WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Concepts ---

func (r *Repository) ListConcepts(ctx context.Context) ([]Concept, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, description, is_deletable FROM concept ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		var c Concept
		if err := rows.Scan(&c.ID, &c.Description, &c.IsDeletable); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetConcept(ctx context.Context, id int64) (Concept, error) {
	var c Concept
	err := r.pool.QueryRow(ctx,
		`SELECT id, description, is_deletable FROM concept WHERE id = $1`, id).
		Scan(&c.ID, &c.Description, &c.IsDeletable)
	if errors.Is(err, pgx.ErrNoRows) {
		return Concept{}, shared.ErrNotFound
	}
	if err != nil {
		return Concept{}, fmt.Errorf("get concept: %w", err)
	}
	return c, nil
}

func (r *Repository) CreateConcept(ctx context.Context, description string) (Concept, error) {
	c := Concept{Description: description, IsDeletable: true}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO concept (description, is_deletable) VALUES ($1, true) RETURNING id`,
		description).Scan(&c.ID)
	if err != nil {
		return Concept{}, fmt.Errorf("create concept: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateConcept(ctx context.Context, id int64, description string) (Concept, error) {
	var c Concept
	err := r.pool.QueryRow(ctx, `
		UPDATE concept SET description = $2 WHERE id = $1
		RETURNING id, description, is_deletable`, id, description).
		Scan(&c.ID, &c.Description, &c.IsDeletable)
	if errors.Is(err, pgx.ErrNoRows) {
		return Concept{}, shared.ErrNotFound
	}
	if err != nil {
		return Concept{}, fmt.Errorf("update concept: %w", err)
	}
	return c, nil
}

// DeleteConcept removes a user-defined concept. Seeded concepts the payroll
// calculator depends on are flagged non-deletable and are refused here.
func (r *Repository) DeleteConcept(ctx context.Context, id int64) error {
	c, err := r.GetConcept(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsDeletable {
		return fmt.Errorf("concept %d is reserved", id)
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM concept WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete concept: %w", err)
	}
	return nil
}

// --- Abilities ---

func (r *Repository) ListAbilities(ctx context.Context) ([]Ability, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM ability ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list abilities: %w", err)
	}
	defer rows.Close()

	var out []Ability
	for rows.Next() {
		var a Ability
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("scan ability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetAbility(ctx context.Context, id int64) (Ability, error) {
	var a Ability
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM ability WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ability{}, shared.ErrNotFound
	}
	if err != nil {
		return Ability{}, fmt.Errorf("get ability: %w", err)
	}
	return a, nil
}

func (r *Repository) CreateAbility(ctx context.Context, name string, description *string) (Ability, error) {
	a := Ability{Name: name, Description: description}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ability (name, description) VALUES ($1, $2) RETURNING id`,
		name, description).Scan(&a.ID)
	if err != nil {
		return Ability{}, fmt.Errorf("create ability: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateAbility(ctx context.Context, id int64, name string, description *string) (Ability, error) {
	var a Ability
	err := r.pool.QueryRow(ctx, `
		UPDATE ability SET name = $2, description = $3 WHERE id = $1
		RETURNING id, name, description`, id, name, description).
		Scan(&a.ID, &a.Name, &a.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ability{}, shared.ErrNotFound
	}
	if err != nil {
		return Ability{}, fmt.Errorf("update ability: %w", err)
	}
	return a, nil
}

func (r *Repository) DeleteAbility(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ability WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Countries and states ---

func (r *Repository) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM country ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var out []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) ListStates(ctx context.Context, countryID *int64) ([]State, error) {
	query := `SELECT id, name, country_id FROM state ORDER BY name`
	args := []any{}
	if countryID != nil {
		query = `SELECT id, name, country_id FROM state WHERE country_id = $1 ORDER BY name`
		args = append(args, *countryID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var out []State
	for rows.Next() {
		var s State
		if err := rows.Scan(&s.ID, &s.Name, &s.CountryID); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
