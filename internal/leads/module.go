// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	agentsrepo "leadflow_backend/internal/agents/repository"
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/analytics"
	"leadflow_backend/internal/leads/assignment"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/management"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	assignment *assignment.Service
	analytics  *analytics.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	// Create shared repository
	repo := repository.New(pool)
	agents := agentsrepo.New(pool)

	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus)
	assignSvc := assignment.New(repo, agents, eventBus)
	statsSvc := analytics.New(repo)

	h := handler.New(mgmtSvc, assignSvc, statsSvc, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		assignment: assignSvc,
		analytics:  statsSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// AssignmentService returns the assignment service for external use.
func (m *Module) AssignmentService() *assignment.Service {
	return m.assignment
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
