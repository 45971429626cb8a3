package analytics

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads   []repository.Lead
	revenue repository.RevenueSummary
}

func (f *fakeRepo) GetByID(_ context.Context, _ uuid.UUID) (repository.Lead, error) {
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeRepo) ExistsByPhone(_ context.Context, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, error) {
	return f.leads, nil
}

func (f *fakeRepo) GetRevenueSummary(_ context.Context) (repository.RevenueSummary, error) {
	return f.revenue, nil
}

func lead(status string, pipeline string) repository.Lead {
	var p *string
	if pipeline != "" {
		p = &pipeline
	}
	return repository.Lead{
		ID:        uuid.New(),
		Status:    status,
		Pipeline:  p,
		IsActive:  !domain.IsTerminal(domain.Status(status)),
		CreatedAt: time.Now(),
	}
}

func TestSummaryReportsEveryCategory(t *testing.T) {
	repo := &fakeRepo{leads: []repository.Lead{
		lead(string(domain.StatusNew), ""),
		lead(string(domain.StatusConverted), ""),
	}}
	svc := New(repo)

	resp, err := svc.Summary(context.Background(), repository.ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if len(resp.Categories) != len(domain.AllCategories()) {
		t.Fatalf("categories = %d, want %d; zero rows must be present",
			len(resp.Categories), len(domain.AllCategories()))
	}

	counts := make(map[string]int)
	for _, c := range resp.Categories {
		counts[c.Category] = c.Count
	}
	if counts["new"] != 1 || counts["converted"] != 1 || counts["closed"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestSummaryEmptySnapshot(t *testing.T) {
	svc := New(&fakeRepo{})

	resp, err := svc.Summary(context.Background(), repository.ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("total = %d, want 0", resp.Total)
	}
	for _, c := range resp.Categories {
		if c.Count != 0 {
			t.Fatalf("category %s = %d, want 0", c.Category, c.Count)
		}
	}
}

func TestDashboardAttachesInsightPerPipeline(t *testing.T) {
	repo := &fakeRepo{
		leads: []repository.Lead{
			lead(string(domain.StatusNew), "Walk-in"),
			lead(string(domain.StatusNew), "Walk-in"),
			lead(string(domain.StatusNew), "Do Not Call"),
		},
		revenue: repository.RevenueSummary{Conversions: 4, TotalFee: 4000, TotalPaid: 2500, TotalDue: 1500},
	}
	svc := New(repo)

	dash, err := svc.Dashboard(context.Background(), repository.ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dash.Total != 3 {
		t.Fatalf("total = %d, want 3", dash.Total)
	}
	if len(dash.Insights) != len(dash.Pipelines) {
		t.Fatalf("insights = %d, pipelines = %d; every pipeline gets advice",
			len(dash.Insights), len(dash.Pipelines))
	}
	for _, insight := range dash.Insights {
		if insight.Advice == "" {
			t.Fatalf("pipeline %s has no advice", insight.Pipeline)
		}
	}
	if dash.Revenue.TotalDue != 1500 {
		t.Fatalf("revenue due = %v, want 1500", dash.Revenue.TotalDue)
	}
}
