package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the persisted lead row, with the assigned agent's name hydrated
// via join for analytics and list views.
type Lead struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Email           *string
	College         *string
	Status          string
	AssignedBOEID   *uuid.UUID
	AssignedBOEName *string
	Pipeline        *string
	RetryCount      int
	NextFollowUpAt  *time.Time
	IsActive        bool
	ConversionDue   *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const leadColumns = `
	l.id, l.name, l.phone, l.email, l.college, l.status,
	l.assigned_boe_id, a.name, l.pipeline, l.retry_count,
	l.next_followup_at, l.is_active, l.conversion_due_amount,
	l.created_at, l.updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.College, &lead.Status,
		&lead.AssignedBOEID, &lead.AssignedBOEName, &lead.Pipeline, &lead.RetryCount,
		&lead.NextFollowUpAt, &lead.IsActive, &lead.ConversionDue,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	Name          string
	Phone         string
	Email         *string
	College       *string
	Status        string
	AssignedBOEID *uuid.UUID
	Pipeline      *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO leads (name, phone, email, college, status, assigned_boe_id, pipeline)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM inserted l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
	`,
		params.Name, params.Phone, params.Email, params.College,
		params.Status, params.AssignedBOEID, params.Pipeline,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
		WHERE l.id = $1
	`, id))
}

// ExistsByPhone reports whether another lead already holds the phone
// number. excludeID skips the lead being edited.
func (r *Repository) ExistsByPhone(ctx context.Context, phone string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leads
			WHERE phone = $1 AND ($2::uuid IS NULL OR id <> $2)
		)
	`, phone, excludeID).Scan(&exists)
	return exists, err
}

type UpdateLeadParams struct {
	Name     *string
	Phone    *string
	Email    *string
	College  *string
	Pipeline *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	args = append(args, id)

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Phone != nil {
		addSet("phone", *params.Phone)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.College != nil {
		addSet("college", *params.College)
	}
	if params.Pipeline != nil {
		addSet("pipeline", *params.Pipeline)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	return scanLead(r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE leads SET `+strings.Join(sets, ", ")+`
			WHERE id = $1
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM updated l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
	`, args...))
}

// ListParams filters the lead feed. A nil field leaves that dimension
// unfiltered.
type ListParams struct {
	BOEID      *uuid.UUID
	TeamLeadID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Inactive   *bool
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	addWhere := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if params.BOEID != nil {
		addWhere("l.assigned_boe_id = $%d", *params.BOEID)
	}
	if params.TeamLeadID != nil {
		addWhere("a.team_lead_id = $%d", *params.TeamLeadID)
	}
	if params.From != nil {
		addWhere("l.created_at >= $%d", *params.From)
	}
	if params.To != nil {
		addWhere("l.created_at <= $%d", *params.To)
	}
	if params.Inactive != nil {
		addWhere("l.is_active = $%d", !*params.Inactive)
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY l.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// ListStatuses returns the authoritative status enumeration in display
// order. The table is seeded by migrations and is the single source the
// transition guard validates targets against.
func (r *Repository) ListStatuses(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT value FROM lead_statuses ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		statuses = append(statuses, value)
	}

	return statuses, rows.Err()
}

type UpdateStatusParams struct {
	Status         string
	IsActive       bool
	BumpRetry      bool
	NextFollowUpAt *time.Time
	SetFollowUp    bool
	ConversionDue  *float64
}

// UpdateStatus commits a status transition. The caller (the transition
// guard) decides the derived fields: is_active, retry bump, follow-up and
// the mirrored conversion due amount.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE leads SET
				status = $2,
				is_active = $3,
				retry_count = retry_count + CASE WHEN $4 THEN 1 ELSE 0 END,
				next_followup_at = CASE WHEN $5 THEN $6 ELSE next_followup_at END,
				conversion_due_amount = COALESCE($7, conversion_due_amount),
				updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM updated l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
	`,
		id, params.Status, params.IsActive, params.BumpRetry,
		params.SetFollowUp, params.NextFollowUpAt, params.ConversionDue,
	))
}

// UpdateAssignment points the lead at the given agent, overwriting any
// previous assignment.
func (r *Repository) UpdateAssignment(ctx context.Context, id uuid.UUID, boeID uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE leads SET assigned_boe_id = $2, updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM updated l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
	`, id, boeID))
}

// SetFollowUp schedules the next contact attempt.
func (r *Repository) SetFollowUp(ctx context.Context, id uuid.UUID, at time.Time) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE leads SET next_followup_at = $2, updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+leadColumns+`
		FROM updated l
		LEFT JOIN agents a ON a.id = l.assigned_boe_id
	`, id, at))
}
