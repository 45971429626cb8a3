package analytics

import (
	"context"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"

	"golang.org/x/sync/errgroup"
)

// Repository defines the data access the analytics service needs.
type Repository interface {
	repository.LeadReader
	repository.MetricsReader
}

// Service computes dashboards over the lead snapshot. The reducers do
// the counting; the service only fetches and stitches.
type Service struct {
	repo Repository
}

// New creates a new analytics service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Insight is one pipeline's advisory line on the dashboard.
type Insight struct {
	Pipeline string  `json:"pipeline"`
	Share    float64 `json:"share"`
	Advice   string  `json:"advice"`
}

// Dashboard is the full analytics payload.
type Dashboard struct {
	Total     int                       `json:"total"`
	Statuses  []StatusCount             `json:"statuses"`
	Pipelines []PipelineCount           `json:"pipelines"`
	Agents    AgentBreakdown            `json:"agents"`
	Retries   []RetryCount              `json:"retries"`
	Daily     DailyBreakdown            `json:"daily"`
	FollowUps FollowUpSplit             `json:"followUps"`
	Inactive  []StatusCount             `json:"inactive"`
	Revenue   repository.RevenueSummary `json:"revenue"`
	Insights  []Insight                 `json:"insights"`
}

// Summary counts the snapshot per category. Every category is reported,
// including zero rows, so the dashboard tiles stay stable.
func (s *Service) Summary(ctx context.Context, params repository.ListParams) (transport.SummaryResponse, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.SummaryResponse{}, err
	}
	leads := repository.Snapshots(rows)

	counts := domain.CountByCategory(leads, time.Now())
	categories := make([]transport.CategoryCount, 0, len(counts))
	for _, category := range domain.AllCategories() {
		categories = append(categories, transport.CategoryCount{
			Category: string(category),
			Count:    counts[category],
		})
	}

	return transport.SummaryResponse{Total: len(leads), Categories: categories}, nil
}

// Dashboard assembles every breakdown over one snapshot fetch, with the
// revenue aggregate loaded concurrently.
func (s *Service) Dashboard(ctx context.Context, params repository.ListParams) (Dashboard, error) {
	var (
		rows    []repository.Lead
		revenue repository.RevenueSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.List(gctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = s.repo.GetRevenueSummary(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	leads := repository.Snapshots(rows)
	pipelines := ByPipeline(leads)

	insights := make([]Insight, 0, len(pipelines))
	for _, p := range pipelines {
		insights = append(insights, Insight{
			Pipeline: p.Pipeline,
			Share:    p.Percentage,
			Advice:   domain.PipelineInsight(p.Pipeline, p.Percentage),
		})
	}

	return Dashboard{
		Total:     len(leads),
		Statuses:  ByStatus(leads),
		Pipelines: pipelines,
		Agents:    ByAgent(leads),
		Retries:   ByRetry(leads),
		Daily:     ByDay(leads),
		FollowUps: SplitFollowUps(leads, time.Now()),
		Inactive:  InactiveByStatus(leads),
		Revenue:   revenue,
		Insights:  insights,
	}, nil
}
