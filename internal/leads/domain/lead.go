// Package domain holds the pure lead-lifecycle rules: the call-status
// classification, the conversion financial validation, and the pipeline
// insight heuristic. Nothing in this package touches the database or the
// network; every function computes over an in-memory snapshot.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is the in-memory snapshot the classifier and the analytics
// reducers compute over. Optional fields are explicit pointers so a
// missing value is distinguishable from a zero value.
type Lead struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Email           *string
	College         *string
	Status          Status
	AssignedBOEID   *uuid.UUID
	AssignedBOEName *string
	Pipeline        *string
	RetryCount      int
	NextFollowUpAt  *time.Time
	IsActive        bool
	ConversionDue   *float64
	CreatedAt       time.Time
}

// ConversionDetails is the financial record gating the Converted status.
// One per lead, created on first conversion, amendable afterward.
type ConversionDetails struct {
	LeadID     uuid.UUID
	CourseName *string
	CourseFee  float64
	AmountPaid float64
	DueAmount  float64
}
