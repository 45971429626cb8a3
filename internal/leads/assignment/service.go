// Package assignment binds leads to agents: single assignment, bulk
// reassignment and even distribution of a batch across a team.
package assignment

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository defines the lead access the assignment service needs.
type Repository interface {
	repository.AssignmentWriter
}

// AgentDirectory verifies assignment targets. The agents module's
// repository satisfies it.
type AgentDirectory interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service handles lead assignment operations.
type Service struct {
	repo   Repository
	agents AgentDirectory
	bus    events.Bus
}

// New creates a new assignment service.
func New(repo Repository, agents AgentDirectory, bus events.Bus) *Service {
	return &Service{repo: repo, agents: agents, bus: bus}
}

// Assign binds one lead to one agent, overwriting any previous
// assignment. Closed leads cannot be handed out.
func (s *Service) Assign(ctx context.Context, leadID uuid.UUID, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
	if err := s.verifyAgent(ctx, req.BOEID); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.assignOne(ctx, leadID, req.BOEID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toLeadResponse(lead), nil
}

// BulkAssign points a batch of leads at a single agent. Per-lead
// failures are reported as data in the response, not as a request
// error; one bad lead must not sink the batch.
func (s *Service) BulkAssign(ctx context.Context, req transport.BulkAssignRequest) (transport.BulkAssignResponse, error) {
	if err := s.verifyAgent(ctx, req.BOEID); err != nil {
		return transport.BulkAssignResponse{}, err
	}

	resp := transport.BulkAssignResponse{
		Assigned: make([]uuid.UUID, 0, len(req.LeadIDs)),
		Failed:   make([]transport.BulkAssignFailure, 0),
	}
	for _, leadID := range req.LeadIDs {
		if _, err := s.assignOne(ctx, leadID, req.BOEID); err != nil {
			resp.Failed = append(resp.Failed, transport.BulkAssignFailure{
				LeadID: leadID,
				Reason: failureReason(err),
			})
			continue
		}
		resp.Assigned = append(resp.Assigned, leadID)
	}

	return resp, nil
}

// Distribute splits the batch across the given agents in contiguous
// chunks of ceil(leads/agents), preserving the request order. With more
// agents than leads the trailing agents receive nothing.
func (s *Service) Distribute(ctx context.Context, req transport.DistributeRequest) (transport.DistributeResponse, error) {
	for _, boeID := range req.BOEIDs {
		if err := s.verifyAgent(ctx, boeID); err != nil {
			return transport.DistributeResponse{}, err
		}
	}

	chunk := (len(req.LeadIDs) + len(req.BOEIDs) - 1) / len(req.BOEIDs)

	resp := transport.DistributeResponse{
		Slices:   make([]transport.DistributeSlice, 0, len(req.BOEIDs)),
		Assigned: make([]uuid.UUID, 0, len(req.LeadIDs)),
		Failed:   make([]transport.BulkAssignFailure, 0),
	}

	for i, boeID := range req.BOEIDs {
		start := i * chunk
		if start >= len(req.LeadIDs) {
			break
		}
		end := start + chunk
		if end > len(req.LeadIDs) {
			end = len(req.LeadIDs)
		}

		slice := transport.DistributeSlice{
			BOEID:   boeID,
			LeadIDs: make([]uuid.UUID, 0, end-start),
		}
		for _, leadID := range req.LeadIDs[start:end] {
			if _, err := s.assignOne(ctx, leadID, boeID); err != nil {
				resp.Failed = append(resp.Failed, transport.BulkAssignFailure{
					LeadID: leadID,
					Reason: failureReason(err),
				})
				continue
			}
			slice.LeadIDs = append(slice.LeadIDs, leadID)
			resp.Assigned = append(resp.Assigned, leadID)
		}
		slice.Assigned = len(slice.LeadIDs)
		resp.Slices = append(resp.Slices, slice)
	}

	return resp, nil
}

func (s *Service) verifyAgent(ctx context.Context, boeID uuid.UUID) error {
	exists, err := s.agents.ExistsByID(ctx, boeID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(fmt.Sprintf("agent %s not found", boeID))
	}
	return nil
}

func (s *Service) assignOne(ctx context.Context, leadID, boeID uuid.UUID) (repository.Lead, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound("lead not found")
		}
		return repository.Lead{}, err
	}
	if domain.IsTerminal(domain.Status(current.Status)) {
		return repository.Lead{}, apperr.PreconditionFailed("lead is closed and cannot be assigned")
	}

	lead, err := s.repo.UpdateAssignment(ctx, leadID, boeID)
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		LeadPhone: lead.Phone,
		BOEID:     boeID,
	})

	return lead, nil
}

func failureReason(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		Name:            lead.Name,
		Phone:           lead.Phone,
		Email:           lead.Email,
		College:         lead.College,
		Status:          lead.Status,
		AssignedBOEID:   lead.AssignedBOEID,
		AssignedBOEName: lead.AssignedBOEName,
		Pipeline:        lead.Pipeline,
		RetryCount:      lead.RetryCount,
		NextFollowUpAt:  lead.NextFollowUpAt,
		IsActive:        lead.IsActive,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}
