// Package agents provides the agent directory bounded context module.
package agents

import (
	"leadflow_backend/internal/agents/handler"
	"leadflow_backend/internal/agents/repository"
	"leadflow_backend/internal/agents/service"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the agents module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Repository returns the repository so other modules can verify agents.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	boes := ctx.Protected.Group("/boes")
	m.handler.RegisterRoutes(boes)
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/boes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
