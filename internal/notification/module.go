// Package notification provides event handlers for sending emails in
// response to domain events. This module subscribes to events and
// inverts the dependency: domain modules never touch email providers
// or templates.
package notification

import (
	"context"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// AgentReader resolves the agent an email should go to. The agents
// module's repository satisfies it.
type AgentReader interface {
	GetAgentContact(ctx context.Context, id uuid.UUID) (name, emailAddr string, err error)
}

// Module wires domain events to outgoing email.
type Module struct {
	mail   email.Sender
	agents AgentReader
	log    *logger.Logger
}

// NewModule creates the notification module and subscribes its handlers
// on the bus.
func NewModule(bus events.Bus, mail email.Sender, agents AgentReader, log *logger.Logger) *Module {
	m := &Module{mail: mail, agents: agents, log: log}

	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))
	bus.Subscribe(events.LeadConverted{}.EventName(), events.HandlerFunc(m.onLeadConverted))
	bus.Subscribe(events.FollowUpReminderDue{}.EventName(), events.HandlerFunc(m.onFollowUpReminderDue))

	return m
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return nil
	}

	name, addr, err := m.agents.GetAgentContact(ctx, e.BOEID)
	if err != nil {
		m.log.Error("assignment notification: agent lookup failed", "error", err, "boeId", e.BOEID)
		return err
	}

	if err := m.mail.SendLeadAssignedEmail(ctx, addr, name, e.LeadName, e.LeadPhone); err != nil {
		m.log.Error("assignment notification failed", "error", err, "leadId", e.LeadID)
		return err
	}
	return nil
}

func (m *Module) onFollowUpReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpReminderDue)
	if !ok {
		return nil
	}

	// Unassigned leads have nobody to remind.
	if e.BOEID == nil {
		return nil
	}

	name, addr, err := m.agents.GetAgentContact(ctx, *e.BOEID)
	if err != nil {
		m.log.Error("follow-up reminder: agent lookup failed", "error", err, "boeId", *e.BOEID)
		return err
	}

	if err := m.mail.SendFollowUpReminderEmail(ctx, addr, name, e.LeadName, e.DueAt); err != nil {
		m.log.Error("follow-up reminder failed", "error", err, "leadId", e.LeadID)
		return err
	}
	return nil
}

func (m *Module) onLeadConverted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadConverted)
	if !ok {
		return nil
	}

	// Converted leads may be unassigned when the conversion is recorded
	// by a team lead directly; nothing to notify then.
	if e.BOEID == nil {
		return nil
	}

	_, addr, err := m.agents.GetAgentContact(ctx, *e.BOEID)
	if err != nil {
		m.log.Error("conversion notification: agent lookup failed", "error", err, "boeId", *e.BOEID)
		return err
	}

	if err := m.mail.SendLeadConvertedEmail(ctx, addr, e.LeadName, e.CourseFee, e.DueAmount); err != nil {
		m.log.Error("conversion notification failed", "error", err, "leadId", e.LeadID)
		return err
	}
	return nil
}
