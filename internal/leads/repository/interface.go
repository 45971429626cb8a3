package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, params ListParams) ([]Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (Lead, error)
	SetFollowUp(ctx context.Context, id uuid.UUID, at time.Time) (Lead, error)
}

// StatusReader exposes the authoritative status enumeration.
type StatusReader interface {
	ListStatuses(ctx context.Context) ([]string, error)
}

// ConversionStore persists the financial record gating conversion.
type ConversionStore interface {
	GetConversionDetails(ctx context.Context, leadID uuid.UUID) (*ConversionDetails, error)
	UpsertConversionDetails(ctx context.Context, details ConversionDetails) error
}

// CourseReader provides access to the course catalog.
type CourseReader interface {
	ListCourses(ctx context.Context) ([]Course, error)
	CountCourses(ctx context.Context) (int, error)
}

// MetricsReader provides access to aggregated revenue figures.
type MetricsReader interface {
	GetRevenueSummary(ctx context.Context) (RevenueSummary, error)
}

// AssignmentWriter rebinds leads to agents.
type AssignmentWriter interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, boeID uuid.UUID) (Lead, error)
}
