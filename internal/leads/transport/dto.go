package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	Name       string       `json:"name" validate:"required,min=1,max=100"`
	Phone      string       `json:"phone" validate:"required,min=5,max=20"`
	Email      string       `json:"email,omitempty" validate:"omitempty,email"`
	College    string       `json:"college,omitempty" validate:"max=200"`
	Pipeline   string       `json:"pipeline,omitempty" validate:"max=100"`
	AssigneeID OptionalUUID `json:"assigneeId,omitempty" validate:"-"`
}

type UpdateLeadRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	College  *string `json:"college,omitempty" validate:"omitempty,max=200"`
	Pipeline *string `json:"pipeline,omitempty" validate:"omitempty,max=100"`
}

// ConversionPayload carries the financial figures accompanying a move to
// Converted. Pointers keep "not supplied" distinguishable from zero.
type ConversionPayload struct {
	CourseName *string  `json:"courseName,omitempty" validate:"omitempty,max=200"`
	CourseFee  *float64 `json:"courseFee,omitempty"`
	AmountPaid *float64 `json:"amountPaid,omitempty"`
	DueAmount  *float64 `json:"dueAmount,omitempty"`
}

type UpdateStatusRequest struct {
	Status         string             `json:"status" validate:"required,min=1,max=50"`
	NextFollowUpAt *time.Time         `json:"nextFollowUpAt,omitempty"`
	Conversion     *ConversionPayload `json:"conversion,omitempty"`
}

type AssignLeadRequest struct {
	BOEID uuid.UUID `json:"boeId" validate:"required"`
}

type BulkAssignRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"required,min=1,dive,required"`
	BOEID   uuid.UUID   `json:"boeId" validate:"required"`
}

type DistributeRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"required,min=1,dive,required"`
	BOEIDs  []uuid.UUID `json:"boeIds" validate:"required,min=1,dive,required"`
}

type FollowUpRequest struct {
	NextFollowUpAt time.Time `json:"nextFollowUpAt" validate:"required"`
}

type ListLeadsRequest struct {
	BOEID      *uuid.UUID `form:"boeId"`
	TeamLeadID *uuid.UUID `form:"teamLeadId"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Inactive   *bool      `form:"inactive"`
	Category   string     `form:"category" validate:"max=50"`
}

// Response DTOs
type ConversionResponse struct {
	CourseName *string `json:"courseName,omitempty"`
	CourseFee  float64 `json:"courseFee"`
	AmountPaid float64 `json:"amountPaid"`
	DueAmount  float64 `json:"dueAmount"`
}

type LeadResponse struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	Email           *string             `json:"email,omitempty"`
	College         *string             `json:"college,omitempty"`
	Status          string              `json:"status"`
	AssignedBOEID   *uuid.UUID          `json:"assignedBoeId,omitempty"`
	AssignedBOEName *string             `json:"assignedBoeName,omitempty"`
	Pipeline        *string             `json:"pipeline,omitempty"`
	RetryCount      int                 `json:"retryCount"`
	NextFollowUpAt  *time.Time          `json:"nextFollowUpAt,omitempty"`
	IsActive        bool                `json:"isActive"`
	Conversion      *ConversionResponse `json:"conversion,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type StatusListResponse struct {
	Statuses []string `json:"statuses"`
}

type CourseResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BulkAssignFailure reports one lead that could not be reassigned. Bulk
// failures are data for the caller, not request errors.
type BulkAssignFailure struct {
	LeadID uuid.UUID `json:"leadId"`
	Reason string    `json:"reason"`
}

type BulkAssignResponse struct {
	Assigned []uuid.UUID         `json:"assigned"`
	Failed   []BulkAssignFailure `json:"failed"`
}

type DistributeSlice struct {
	BOEID    uuid.UUID   `json:"boeId"`
	LeadIDs  []uuid.UUID `json:"leadIds"`
	Assigned int         `json:"assigned"`
}

type DistributeResponse struct {
	Slices   []DistributeSlice   `json:"slices"`
	Assigned []uuid.UUID         `json:"assigned"`
	Failed   []BulkAssignFailure `json:"failed"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SummaryResponse struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}
