// Package service implements the agent directory: the roster of
// business operations executives that leads are assigned to.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/agents/repository"
	"leadflow_backend/internal/agents/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository defines the data access the agent service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateAgentParams) (repository.Agent, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Agent, error)
	List(ctx context.Context, teamLeadID *uuid.UUID) ([]repository.Agent, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateAgentParams) (repository.Agent, error)
	CountOpenLeads(ctx context.Context) (map[uuid.UUID]int, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	params := repository.CreateAgentParams{
		Name:       req.Name,
		Email:      req.Email,
		TeamLeadID: req.TeamLeadID,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	agent, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	return toAgentResponse(agent, 0), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AgentResponse{}, apperr.NotFound("agent not found")
		}
		return transport.AgentResponse{}, err
	}

	counts, err := s.repo.CountOpenLeads(ctx)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	return toAgentResponse(agent, counts[agent.ID]), nil
}

// List returns the roster with each agent's open-lead workload, so team
// leads can see who has capacity before distributing a batch.
func (s *Service) List(ctx context.Context, teamLeadID *uuid.UUID) (transport.AgentListResponse, error) {
	agents, err := s.repo.List(ctx, teamLeadID)
	if err != nil {
		return transport.AgentListResponse{}, err
	}

	counts, err := s.repo.CountOpenLeads(ctx)
	if err != nil {
		return transport.AgentListResponse{}, err
	}

	items := make([]transport.AgentResponse, len(agents))
	for i, agent := range agents {
		items[i] = toAgentResponse(agent, counts[agent.ID])
	}

	return transport.AgentListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAgentRequest) (transport.AgentResponse, error) {
	params := repository.UpdateAgentParams{
		Name:       req.Name,
		Email:      req.Email,
		TeamLeadID: req.TeamLeadID,
		IsActive:   req.IsActive,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	agent, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AgentResponse{}, apperr.NotFound("agent not found")
		}
		return transport.AgentResponse{}, err
	}

	return toAgentResponse(agent, 0), nil
}

func toAgentResponse(agent repository.Agent, openLeads int) transport.AgentResponse {
	return transport.AgentResponse{
		ID:         agent.ID,
		Name:       agent.Name,
		Email:      agent.Email,
		Phone:      agent.Phone,
		TeamLeadID: agent.TeamLeadID,
		IsActive:   agent.IsActive,
		OpenLeads:  openLeads,
		CreatedAt:  agent.CreatedAt,
	}
}
