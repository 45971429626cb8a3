// Package repository provides data access for the agent directory.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("agent not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Agent is a business operations executive who works assigned leads.
type Agent struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Phone      *string
	TeamLeadID *uuid.UUID
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const agentColumns = `id, name, email, phone, team_lead_id, is_active, created_at, updated_at`

func scanAgent(row pgx.Row) (Agent, error) {
	var agent Agent
	err := row.Scan(
		&agent.ID, &agent.Name, &agent.Email, &agent.Phone,
		&agent.TeamLeadID, &agent.IsActive, &agent.CreatedAt, &agent.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, ErrNotFound
	}
	return agent, err
}

type CreateAgentParams struct {
	Name       string
	Email      string
	Phone      *string
	TeamLeadID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateAgentParams) (Agent, error) {
	return scanAgent(r.pool.QueryRow(ctx, `
		INSERT INTO agents (name, email, phone, team_lead_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+agentColumns+`
	`, params.Name, params.Email, params.Phone, params.TeamLeadID))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	return scanAgent(r.pool.QueryRow(ctx, `
		SELECT `+agentColumns+` FROM agents WHERE id = $1
	`, id))
}

// ExistsByID reports whether an active agent can receive assignments.
func (r *Repository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM agents WHERE id = $1 AND is_active)
	`, id).Scan(&exists)
	return exists, err
}

// GetAgentContact resolves the name and email address notifications go
// to.
func (r *Repository) GetAgentContact(ctx context.Context, id uuid.UUID) (string, string, error) {
	var name, email string
	err := r.pool.QueryRow(ctx, `
		SELECT name, email FROM agents WHERE id = $1
	`, id).Scan(&name, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return name, email, err
}

// List returns agents, optionally restricted to one team lead's reports.
func (r *Repository) List(ctx context.Context, teamLeadID *uuid.UUID) ([]Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+agentColumns+`
		FROM agents
		WHERE $1::uuid IS NULL OR team_lead_id = $1
		ORDER BY name ASC
	`, teamLeadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}

type UpdateAgentParams struct {
	Name       *string
	Email      *string
	Phone      *string
	TeamLeadID *uuid.UUID
	IsActive   *bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateAgentParams) (Agent, error) {
	return scanAgent(r.pool.QueryRow(ctx, `
		UPDATE agents SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			team_lead_id = COALESCE($5, team_lead_id),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING `+agentColumns+`
	`, id, params.Name, params.Email, params.Phone, params.TeamLeadID, params.IsActive))
}

// CountOpenLeads reports how many active leads each agent currently
// holds, keyed by agent id. Used by the directory listing.
func (r *Repository) CountOpenLeads(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT assigned_boe_id, COUNT(*)
		FROM leads
		WHERE assigned_boe_id IS NOT NULL AND is_active
		GROUP BY assigned_boe_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}

	return counts, rows.Err()
}
