// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the funnel.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID  `json:"leadId"`
	Name   string     `json:"name"`
	Phone  string     `json:"phone"`
	BOEID  *uuid.UUID `json:"boeId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead is bound to an agent, whether by
// single assign, bulk assign or distribution.
type LeadAssigned struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	LeadName  string    `json:"leadName"`
	LeadPhone string    `json:"leadPhone"`
	BOEID     uuid.UUID `json:"boeId"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadConverted is published after the Converted transition commits.
type LeadConverted struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	BOEID      *uuid.UUID `json:"boeId,omitempty"`
	CourseName *string    `json:"courseName,omitempty"`
	CourseFee  float64    `json:"courseFee"`
	AmountPaid float64    `json:"amountPaid"`
	DueAmount  float64    `json:"dueAmount"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }

// FollowUpScheduled is published when a lead's next contact time is set,
// either directly or as part of a status change.
type FollowUpScheduled struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	DueAt  time.Time `json:"dueAt"`
}

func (e FollowUpScheduled) EventName() string { return "leads.followup.scheduled" }

// FollowUpReminderDue is published by the scheduler worker when a
// scheduled follow-up comes due and the lead is still open.
type FollowUpReminderDue struct {
	BaseEvent
	LeadID   uuid.UUID  `json:"leadId"`
	LeadName string     `json:"leadName"`
	BOEID    *uuid.UUID `json:"boeId,omitempty"`
	DueAt    time.Time  `json:"dueAt"`
}

func (e FollowUpReminderDue) EventName() string { return "leads.followup.reminder_due" }
