package recruitment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for opportunities and postulations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const opportunityColumns = `
	o.id, o.owner_employee_id, o.status, o.work_mode, o.title, o.description,
	o.budget, o.budget_currency_id, o.state_id, o.created_at, o.updated_at`

func scanOpportunity(row pgx.Row) (Opportunity, error) {
	var o Opportunity
	err := row.Scan(
		&o.ID, &o.OwnerEmployeeID, &o.Status, &o.WorkMode, &o.Title, &o.Description,
		&o.Budget, &o.BudgetCurrencyID, &o.StateID, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// ListOpportunities returns all opportunities, optionally only active ones.
func (r *Repository) ListOpportunities(ctx context.Context, onlyActive bool) ([]Opportunity, error) {
	query := `SELECT` + opportunityColumns + ` FROM job_opportunity o ORDER BY o.created_at DESC`
	args := []any{}
	if onlyActive {
		query = `SELECT` + opportunityColumns + `
			FROM job_opportunity o WHERE o.status = $1 ORDER BY o.created_at DESC`
		args = append(args, StatusActive)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var out []Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadAbilities(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CountActiveOpportunities returns the number of published openings.
func (r *Repository) CountActiveOpportunities(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_opportunity WHERE status = $1`, StatusActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active opportunities: %w", err)
	}
	return n, nil
}

// GetOpportunity loads an opportunity with its ability lists.
func (r *Repository) GetOpportunity(ctx context.Context, id int64) (Opportunity, error) {
	o, err := scanOpportunity(r.pool.QueryRow(ctx,
		`SELECT`+opportunityColumns+` FROM job_opportunity o WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Opportunity{}, shared.ErrNotFound
	}
	if err != nil {
		return Opportunity{}, fmt.Errorf("get opportunity: %w", err)
	}
	if err := r.loadAbilities(ctx, &o); err != nil {
		return Opportunity{}, err
	}
	return o, nil
}

func (r *Repository) loadAbilities(ctx context.Context, o *Opportunity) error {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.name, a.description, ja.ability_type
		FROM job_opportunity_ability ja
		JOIN ability a ON a.id = ja.ability_id
		WHERE ja.job_opportunity_id = $1
		ORDER BY a.name`, o.ID)
	if err != nil {
		return fmt.Errorf("load opportunity abilities: %w", err)
	}
	defer rows.Close()

	o.RequiredAbilities = []OpportunityAbility{}
	o.DesirableAbilities = []OpportunityAbility{}
	for rows.Next() {
		var a OpportunityAbility
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &kind); err != nil {
			return fmt.Errorf("scan opportunity ability: %w", err)
		}
		if kind == AbilityRequired {
			o.RequiredAbilities = append(o.RequiredAbilities, a)
		} else {
			o.DesirableAbilities = append(o.DesirableAbilities, a)
		}
	}
	return rows.Err()
}

// CreateOpportunity inserts an opportunity and its ability junctions in one
// transaction.
func (r *Repository) CreateOpportunity(ctx context.Context, o Opportunity) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create opportunity: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO job_opportunity (
			owner_employee_id, status, work_mode, title, description,
			budget, budget_currency_id, state_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id`,
		o.OwnerEmployeeID, o.Status, o.WorkMode, o.Title, o.Description,
		o.Budget, o.BudgetCurrencyID, o.StateID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert opportunity: %w", err)
	}
	if err := insertAbilities(ctx, tx, id, o.RequiredAbilities, AbilityRequired); err != nil {
		return 0, err
	}
	if err := insertAbilities(ctx, tx, id, o.DesirableAbilities, AbilityDesirable); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create opportunity: %w", err)
	}
	return id, nil
}

// UpdateOpportunity rewrites base fields and replaces both ability sets.
func (r *Repository) UpdateOpportunity(ctx context.Context, o Opportunity) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update opportunity: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE job_opportunity
		SET owner_employee_id = $2, status = $3, work_mode = $4, title = $5,
			description = $6, budget = $7, budget_currency_id = $8, state_id = $9,
			updated_at = now()
		WHERE id = $1`,
		o.ID, o.OwnerEmployeeID, o.Status, o.WorkMode, o.Title,
		o.Description, o.Budget, o.BudgetCurrencyID, o.StateID)
	if err != nil {
		return fmt.Errorf("update opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM job_opportunity_ability WHERE job_opportunity_id = $1`, o.ID); err != nil {
		return fmt.Errorf("clear opportunity abilities: %w", err)
	}
	if err := insertAbilities(ctx, tx, o.ID, o.RequiredAbilities, AbilityRequired); err != nil {
		return err
	}
	if err := insertAbilities(ctx, tx, o.ID, o.DesirableAbilities, AbilityDesirable); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteOpportunity removes an opportunity and its junctions.
func (r *Repository) DeleteOpportunity(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_opportunity WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func insertAbilities(ctx context.Context, tx pgx.Tx, opportunityID int64, abilities []OpportunityAbility, kind string) error {
	for _, a := range abilities {
		_, err := tx.Exec(ctx, `
			INSERT INTO job_opportunity_ability (job_opportunity_id, ability_id, ability_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (job_opportunity_id, ability_id) DO UPDATE SET ability_type = $3`,
			opportunityID, a.ID, kind)
		if err != nil {
			return fmt.Errorf("insert opportunity ability: %w", err)
		}
	}
	return nil
}

// --- Postulations ---

const postulationColumns = `
	p.id, p.job_opportunity_id, p.name, p.surname, p.email, p.phone_number,
	p.address_country_id, p.address_state_id, p.cv_file, p.evaluated_at,
	p.suitable, p.ability_match, p.status, p.motive, p.created_at, p.updated_at`

func scanPostulation(row pgx.Row) (Postulation, error) {
	var p Postulation
	var match []byte
	err := row.Scan(
		&p.ID, &p.JobOpportunityID, &p.Name, &p.Surname, &p.Email, &p.PhoneNumber,
		&p.AddressCountryID, &p.AddressStateID, &p.CVFile, &p.EvaluatedAt,
		&p.Suitable, &match, &p.Status, &p.Motive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Postulation{}, err
	}
	if len(match) > 0 {
		var am AbilityMatch
		if err := json.Unmarshal(match, &am); err == nil {
			p.AbilityMatch = &am
		}
	}
	return p, nil
}

// ListPostulations returns applications, optionally for one opportunity.
func (r *Repository) ListPostulations(ctx context.Context, opportunityID *int64) ([]Postulation, error) {
	query := `SELECT` + postulationColumns + ` FROM postulation p ORDER BY p.created_at DESC`
	args := []any{}
	if opportunityID != nil {
		query = `SELECT` + postulationColumns + `
			FROM postulation p WHERE p.job_opportunity_id = $1 ORDER BY p.created_at DESC`
		args = append(args, *opportunityID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list postulations: %w", err)
	}
	defer rows.Close()

	var out []Postulation
	for rows.Next() {
		p, err := scanPostulation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan postulation: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPostulation loads one application.
func (r *Repository) GetPostulation(ctx context.Context, id int64) (Postulation, error) {
	p, err := scanPostulation(r.pool.QueryRow(ctx,
		`SELECT`+postulationColumns+` FROM postulation p WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Postulation{}, shared.ErrNotFound
	}
	if err != nil {
		return Postulation{}, fmt.Errorf("get postulation: %w", err)
	}
	return p, nil
}

// CountPostulations returns the number of applications for an opportunity.
func (r *Repository) CountPostulations(ctx context.Context, opportunityID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM postulation WHERE job_opportunity_id = $1`, opportunityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count postulations: %w", err)
	}
	return n, nil
}

// CreatePostulation inserts a pending application.
func (r *Repository) CreatePostulation(ctx context.Context, p Postulation) (Postulation, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO postulation (
			job_opportunity_id, name, surname, email, phone_number,
			address_country_id, address_state_id, cv_file, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING id, created_at, updated_at`,
		p.JobOpportunityID, p.Name, p.Surname, p.Email, p.PhoneNumber,
		p.AddressCountryID, p.AddressStateID, p.CVFile, PostulationPending,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Postulation{}, fmt.Errorf("insert postulation: %w", err)
	}
	p.Status = PostulationPending
	return p, nil
}

// UpdatePostulationStatus moves an application through the pipeline.
func (r *Repository) UpdatePostulationStatus(ctx context.Context, id int64, status string, motive *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE postulation SET status = $2, motive = $3, updated_at = now()
		WHERE id = $1`, id, status, motive)
	if err != nil {
		return fmt.Errorf("update postulation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// StoreEvaluation records a CV match outcome.
func (r *Repository) StoreEvaluation(ctx context.Context, id int64, suitable bool, match AbilityMatch, at time.Time) error {
	raw, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshal ability match: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE postulation
		SET suitable = $2, ability_match = $3, evaluated_at = $4, updated_at = now()
		WHERE id = $1`, id, suitable, raw, at)
	if err != nil {
		return fmt.Errorf("store evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeletePostulation removes an application.
func (r *Repository) DeletePostulation(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM postulation WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete postulation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
