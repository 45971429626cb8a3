package assignment

import (
	"context"
	"errors"
	"testing"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]repository.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) addLead(status string) uuid.UUID {
	id := uuid.New()
	f.leads[id] = repository.Lead{
		ID:       id,
		Name:     "Lead",
		Status:   status,
		IsActive: !domain.IsTerminal(domain.Status(status)),
	}
	return id
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) UpdateAssignment(_ context.Context, id uuid.UUID, boeID uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.AssignedBOEID = &boeID
	f.leads[id] = lead
	return lead, nil
}

type fakeAgents struct {
	known map[uuid.UUID]bool
}

func newFakeAgents(n int) (*fakeAgents, []uuid.UUID) {
	agents := &fakeAgents{known: make(map[uuid.UUID]bool)}
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		agents.known[ids[i]] = true
	}
	return agents, ids
}

func (f *fakeAgents) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event)           {}
func (noopBus) PublishSync(context.Context, events.Event) error { return nil }
func (noopBus) Subscribe(string, events.Handler)                {}

func TestAssignRejectsUnknownAgent(t *testing.T) {
	repo := newFakeRepo()
	leadID := repo.addLead(string(domain.StatusNew))
	agents, _ := newFakeAgents(0)
	svc := New(repo, agents, noopBus{})

	_, err := svc.Assign(context.Background(), leadID, transport.AssignLeadRequest{BOEID: uuid.New()})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignRejectsClosedLead(t *testing.T) {
	repo := newFakeRepo()
	leadID := repo.addLead(string(domain.StatusConverted))
	agents, ids := newFakeAgents(1)
	svc := New(repo, agents, noopBus{})

	_, err := svc.Assign(context.Background(), leadID, transport.AssignLeadRequest{BOEID: ids[0]})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindPreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}

func TestBulkAssignReportsFailuresAsData(t *testing.T) {
	repo := newFakeRepo()
	open := repo.addLead(string(domain.StatusNew))
	closed := repo.addLead(string(domain.StatusDenied))
	missing := uuid.New()
	agents, ids := newFakeAgents(1)
	svc := New(repo, agents, noopBus{})

	resp, err := svc.BulkAssign(context.Background(), transport.BulkAssignRequest{
		LeadIDs: []uuid.UUID{open, closed, missing},
		BOEID:   ids[0],
	})
	if err != nil {
		t.Fatalf("bulk assign must not error on per-lead failures: %v", err)
	}
	if len(resp.Assigned) != 1 || resp.Assigned[0] != open {
		t.Fatalf("assigned = %v, want [%s]", resp.Assigned, open)
	}
	if len(resp.Failed) != 2 {
		t.Fatalf("failed = %v, want 2 entries", resp.Failed)
	}
	if got := repo.leads[open].AssignedBOEID; got == nil || *got != ids[0] {
		t.Fatal("open lead was not reassigned")
	}
	if repo.leads[closed].AssignedBOEID != nil {
		t.Fatal("closed lead must not be reassigned")
	}
}

func TestDistributeChunksContiguously(t *testing.T) {
	repo := newFakeRepo()
	leadIDs := make([]uuid.UUID, 10)
	for i := range leadIDs {
		leadIDs[i] = repo.addLead(string(domain.StatusNew))
	}
	agents, boeIDs := newFakeAgents(3)
	svc := New(repo, agents, noopBus{})

	resp, err := svc.Distribute(context.Background(), transport.DistributeRequest{
		LeadIDs: leadIDs,
		BOEIDs:  boeIDs,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{4, 4, 2}
	if len(resp.Slices) != len(want) {
		t.Fatalf("slices = %d, want %d", len(resp.Slices), len(want))
	}
	for i, slice := range resp.Slices {
		if slice.Assigned != want[i] {
			t.Fatalf("slice %d assigned %d, want %d", i, slice.Assigned, want[i])
		}
		if slice.BOEID != boeIDs[i] {
			t.Fatalf("slice %d bound to wrong agent", i)
		}
	}

	// Contiguity: the first agent gets the first four leads in order.
	for i, leadID := range resp.Slices[0].LeadIDs {
		if leadID != leadIDs[i] {
			t.Fatalf("slice 0 position %d holds the wrong lead", i)
		}
	}
	if len(resp.Assigned) != 10 || len(resp.Failed) != 0 {
		t.Fatalf("assigned=%d failed=%d, want 10/0", len(resp.Assigned), len(resp.Failed))
	}
}

func TestDistributeMoreAgentsThanLeads(t *testing.T) {
	repo := newFakeRepo()
	leadIDs := []uuid.UUID{
		repo.addLead(string(domain.StatusNew)),
		repo.addLead(string(domain.StatusNew)),
	}
	agents, boeIDs := newFakeAgents(5)
	svc := New(repo, agents, noopBus{})

	resp, err := svc.Distribute(context.Background(), transport.DistributeRequest{
		LeadIDs: leadIDs,
		BOEIDs:  boeIDs,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Slices) != 2 {
		t.Fatalf("slices = %d, want 2; trailing agents receive nothing", len(resp.Slices))
	}
	for i, slice := range resp.Slices {
		if slice.Assigned != 1 {
			t.Fatalf("slice %d assigned %d, want 1", i, slice.Assigned)
		}
		if slice.BOEID != boeIDs[i] {
			t.Fatalf("slice %d bound to wrong agent", i)
		}
	}
}

func TestDistributeRejectsUnknownAgentUpfront(t *testing.T) {
	repo := newFakeRepo()
	leadID := repo.addLead(string(domain.StatusNew))
	agents, boeIDs := newFakeAgents(1)
	svc := New(repo, agents, noopBus{})

	_, err := svc.Distribute(context.Background(), transport.DistributeRequest{
		LeadIDs: []uuid.UUID{leadID},
		BOEIDs:  []uuid.UUID{boeIDs[0], uuid.New()},
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.leads[leadID].AssignedBOEID != nil {
		t.Fatal("nothing may be assigned when an agent is unknown")
	}
}
