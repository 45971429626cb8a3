package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateAgentRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=100"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	TeamLeadID *uuid.UUID `json:"teamLeadId,omitempty"`
}

type UpdateAgentRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	TeamLeadID *uuid.UUID `json:"teamLeadId,omitempty"`
	IsActive   *bool      `json:"isActive,omitempty"`
}

// Response DTOs
type AgentResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone,omitempty"`
	TeamLeadID *uuid.UUID `json:"teamLeadId,omitempty"`
	IsActive   bool       `json:"isActive"`
	OpenLeads  int        `json:"openLeads"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type AgentListResponse struct {
	Items []AgentResponse `json:"items"`
	Total int             `json:"total"`
}
