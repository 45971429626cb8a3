package notification

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	assignedCalls  int
	reminderCalls  int
	convertedCalls int
	lastRecipient  string
}

func (s *testSender) SendLeadAssignedEmail(_ context.Context, toEmail, _, _, _ string) error {
	s.assignedCalls++
	s.lastRecipient = toEmail
	return nil
}

func (s *testSender) SendFollowUpReminderEmail(_ context.Context, toEmail, _, _ string, _ time.Time) error {
	s.reminderCalls++
	s.lastRecipient = toEmail
	return nil
}

func (s *testSender) SendLeadConvertedEmail(_ context.Context, toEmail, _ string, _, _ float64) error {
	s.convertedCalls++
	s.lastRecipient = toEmail
	return nil
}

type testAgents struct {
	contacts map[uuid.UUID]string
}

func (a testAgents) GetAgentContact(_ context.Context, id uuid.UUID) (string, string, error) {
	addr, ok := a.contacts[id]
	if !ok {
		return "", "", context.Canceled
	}
	return "Ravi Kumar", addr, nil
}

func newTestModule(sender *testSender, agents testAgents) *Module {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	return NewModule(bus, sender, agents, log)
}

func TestAssignmentEventSendsMailToAgent(t *testing.T) {
	boeID := uuid.New()
	sender := &testSender{}
	m := newTestModule(sender, testAgents{contacts: map[uuid.UUID]string{boeID: "ravi@example.com"}})

	err := m.onLeadAssigned(context.Background(), events.LeadAssigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Asha Rao",
		LeadPhone: "+919876543210",
		BOEID:     boeID,
	})
	if err != nil {
		t.Fatalf("handle assigned: %v", err)
	}
	if sender.assignedCalls != 1 {
		t.Fatalf("expected 1 assignment mail, got %d", sender.assignedCalls)
	}
	if sender.lastRecipient != "ravi@example.com" {
		t.Fatalf("mail went to %q", sender.lastRecipient)
	}
}

func TestConversionEventWithoutAgentIsSkipped(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testAgents{contacts: map[uuid.UUID]string{}})

	err := m.onLeadConverted(context.Background(), events.LeadConverted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Asha Rao",
		BOEID:     nil,
	})
	if err != nil {
		t.Fatalf("handle converted: %v", err)
	}
	if sender.convertedCalls != 0 {
		t.Fatalf("expected no mail for unassigned conversion, got %d", sender.convertedCalls)
	}
}

func TestReminderEventSendsMailToAssignedAgent(t *testing.T) {
	boeID := uuid.New()
	sender := &testSender{}
	m := newTestModule(sender, testAgents{contacts: map[uuid.UUID]string{boeID: "ravi@example.com"}})

	err := m.onFollowUpReminderDue(context.Background(), events.FollowUpReminderDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		LeadName:  "Asha Rao",
		BOEID:     &boeID,
		DueAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("handle reminder: %v", err)
	}
	if sender.reminderCalls != 1 {
		t.Fatalf("expected 1 reminder mail, got %d", sender.reminderCalls)
	}
}
