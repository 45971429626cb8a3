// Package management handles lead CRUD and the status transition guard.
// This is a vertically sliced feature package containing service logic
// for creating, reading, updating and closing leads.
package management

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management
// service. This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.StatusReader
	repository.ConversionStore
	repository.CourseReader
}

// Service handles lead management operations.
type Service struct {
	repo Repository
	bus  events.Bus
}

// New creates a new lead management service.
func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create registers a new lead. Phone numbers are normalized before the
// duplicate check so formatting variants of the same number collide.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	req.Phone = phone.NormalizeE164(req.Phone)

	exists, err := s.repo.ExistsByPhone(ctx, req.Phone, nil)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if exists {
		return transport.LeadResponse{}, apperr.Conflict("a lead with this phone number already exists")
	}

	params := repository.CreateLeadParams{
		Name:   req.Name,
		Phone:  req.Phone,
		Status: string(domain.StatusNew),
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.College != "" {
		params.College = &req.College
	}
	if req.Pipeline != "" {
		params.Pipeline = &req.Pipeline
	}
	if req.AssigneeID.Set {
		params.AssignedBOEID = req.AssigneeID.Value
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		BOEID:     lead.AssignedBOEID,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead, with the conversion record attached when one
// exists.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	details, err := s.repo.GetConversionDetails(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return ToLeadResponseWithConversion(lead, details), nil
}

// Update edits a lead's contact fields. Status changes go through
// UpdateStatus so the transition rules cannot be bypassed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		Name:     req.Name,
		Email:    req.Email,
		College:  req.College,
		Pipeline: req.Pipeline,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		exists, err := s.repo.ExistsByPhone(ctx, normalized, &id)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if exists {
			return transport.LeadResponse{}, apperr.Conflict("a lead with this phone number already exists")
		}
		params.Phone = &normalized
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	return ToLeadResponse(lead), nil
}

// List retrieves leads matching the filters. The category filter is
// computed over the fetched snapshot, not in SQL, so the grouped and
// derived categories stay consistent with the classifier.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	category := domain.Category(req.Category)
	if req.Category != "" && !domain.IsKnownCategory(category) {
		return transport.LeadListResponse{}, apperr.Validation(fmt.Sprintf("unknown category %q", req.Category))
	}

	leads, err := s.repo.List(ctx, repository.ListParams{
		BOEID:      req.BOEID,
		TeamLeadID: req.TeamLeadID,
		From:       req.From,
		To:         req.To,
		Inactive:   req.Inactive,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	if req.Category != "" {
		now := time.Now()
		filtered := make([]repository.Lead, 0, len(leads))
		for _, lead := range leads {
			if category.Matches(lead.Snapshot(), now) {
				filtered = append(filtered, lead)
			}
		}
		leads = filtered
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}

	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// ListStatuses exposes the authoritative status enumeration.
func (s *Service) ListStatuses(ctx context.Context) (transport.StatusListResponse, error) {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return transport.StatusListResponse{}, err
	}
	return transport.StatusListResponse{Statuses: statuses}, nil
}

// ListCourses exposes the course catalog for the conversion form.
func (s *Service) ListCourses(ctx context.Context) ([]transport.CourseResponse, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CourseResponse, len(courses))
	for i, course := range courses {
		out[i] = transport.CourseResponse{ID: course.ID, Name: course.Name}
	}
	return out, nil
}

// UpdateStatus is the transition guard. It validates the target against
// the stored enumeration, refuses to move a closed lead, and gates the
// Converted status behind a validated financial record. Setting the
// current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	target := domain.Status(req.Status)
	if current.Status == req.Status {
		return ToLeadResponse(current), nil
	}
	if domain.IsTerminal(domain.Status(current.Status)) {
		return transport.LeadResponse{}, apperr.PreconditionFailed(
			fmt.Sprintf("lead is closed with status %q and cannot change status", current.Status))
	}

	known, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !containsStatus(known, req.Status) {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
	}

	if target == domain.StatusConverted {
		return s.convert(ctx, current, req.Conversion)
	}

	params := repository.UpdateStatusParams{
		Status:    req.Status,
		IsActive:  !domain.IsTerminal(target),
		BumpRetry: domain.IsCallOutcome(target),
	}
	if req.NextFollowUpAt != nil {
		params.SetFollowUp = true
		params.NextFollowUpAt = req.NextFollowUpAt
	}

	lead, err := s.repo.UpdateStatus(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.NextFollowUpAt != nil {
		s.bus.Publish(ctx, events.FollowUpScheduled{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			DueAt:     *req.NextFollowUpAt,
		})
	}

	return ToLeadResponse(lead), nil
}

// convert commits the Converted transition in two phases: the financial
// record is persisted first, then the status flips. If the status write
// fails the stored record survives, so a retry without a payload still
// finds its validated figures and can complete the move.
func (s *Service) convert(ctx context.Context, current repository.Lead, payload *transport.ConversionPayload) (transport.LeadResponse, error) {
	var details repository.ConversionDetails

	if payload != nil {
		validated, err := s.validateConversion(ctx, current.ID, payload)
		if err != nil {
			return transport.LeadResponse{}, err
		}

		details = validated
		if err := s.repo.UpsertConversionDetails(ctx, details); err != nil {
			return transport.LeadResponse{}, err
		}
	} else {
		stored, err := s.repo.GetConversionDetails(ctx, current.ID)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if stored == nil {
			return transport.LeadResponse{}, apperr.PreconditionFailed(
				"conversion details are required before a lead can be converted")
		}
		details = *stored
	}

	lead, err := s.repo.UpdateStatus(ctx, current.ID, repository.UpdateStatusParams{
		Status:        string(domain.StatusConverted),
		IsActive:      false,
		ConversionDue: &details.DueAmount,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		BOEID:      lead.AssignedBOEID,
		CourseName: details.CourseName,
		CourseFee:  details.CourseFee,
		AmountPaid: details.AmountPaid,
		DueAmount:  details.DueAmount,
	})

	return ToLeadResponseWithConversion(lead, &details), nil
}

// validateConversion runs the financial figures through the domain
// validator, using the course catalog size to decide whether a course
// name is mandatory.
func (s *Service) validateConversion(ctx context.Context, leadID uuid.UUID, payload *transport.ConversionPayload) (repository.ConversionDetails, error) {
	knownCourses, err := s.repo.CountCourses(ctx)
	if err != nil {
		return repository.ConversionDetails{}, err
	}

	validated, err := domain.ValidateConversion(domain.ConversionInput{
		CourseName: payload.CourseName,
		CourseFee:  payload.CourseFee,
		AmountPaid: payload.AmountPaid,
		DueAmount:  payload.DueAmount,
	}, knownCourses)
	if err != nil {
		return repository.ConversionDetails{}, err
	}

	return repository.ConversionDetails{
		LeadID:     leadID,
		CourseName: validated.CourseName,
		CourseFee:  validated.CourseFee,
		AmountPaid: validated.AmountPaid,
		DueAmount:  validated.DueAmount,
	}, nil
}

// RecordConversionDetails persists the financial record without touching
// the lead's status. Before conversion this is the first phase of the
// two-step commit; on an already converted lead it amends the payment
// figures and refreshes the mirrored due amount.
func (s *Service) RecordConversionDetails(ctx context.Context, id uuid.UUID, payload transport.ConversionPayload) (transport.ConversionResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ConversionResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ConversionResponse{}, err
	}

	status := domain.Status(current.Status)
	if domain.IsTerminal(status) && status != domain.StatusConverted {
		return transport.ConversionResponse{}, apperr.PreconditionFailed(
			fmt.Sprintf("lead is closed with status %q and cannot record conversion details", current.Status))
	}

	details, err := s.validateConversion(ctx, id, &payload)
	if err != nil {
		return transport.ConversionResponse{}, err
	}
	if err := s.repo.UpsertConversionDetails(ctx, details); err != nil {
		return transport.ConversionResponse{}, err
	}

	// An amendment on a converted lead changes what is still owed, so the
	// denormalized due amount on the lead row has to follow.
	if status == domain.StatusConverted {
		if _, err := s.repo.UpdateStatus(ctx, id, repository.UpdateStatusParams{
			Status:        string(domain.StatusConverted),
			IsActive:      false,
			ConversionDue: &details.DueAmount,
		}); err != nil {
			return transport.ConversionResponse{}, err
		}
	}

	return transport.ConversionResponse{
		CourseName: details.CourseName,
		CourseFee:  details.CourseFee,
		AmountPaid: details.AmountPaid,
		DueAmount:  details.DueAmount,
	}, nil
}

// GetConversionDetails returns the stored financial record, or nil when
// the lead has none yet.
func (s *Service) GetConversionDetails(ctx context.Context, id uuid.UUID) (*transport.ConversionResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	details, err := s.repo.GetConversionDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, nil
	}

	return &transport.ConversionResponse{
		CourseName: details.CourseName,
		CourseFee:  details.CourseFee,
		AmountPaid: details.AmountPaid,
		DueAmount:  details.DueAmount,
	}, nil
}

// SetFollowUp schedules the next contact attempt on an open lead.
func (s *Service) SetFollowUp(ctx context.Context, id uuid.UUID, req transport.FollowUpRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if domain.IsTerminal(domain.Status(current.Status)) {
		return transport.LeadResponse{}, apperr.PreconditionFailed("cannot schedule a follow-up on a closed lead")
	}

	lead, err := s.repo.SetFollowUp(ctx, id, req.NextFollowUpAt)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.FollowUpScheduled{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		DueAt:     req.NextFollowUpAt,
	})

	return ToLeadResponse(lead), nil
}

func containsStatus(statuses []string, target string) bool {
	for _, s := range statuses {
		if s == target {
			return true
		}
	}
	return false
}
