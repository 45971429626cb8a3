// Package analytics turns a lead snapshot into the counts and
// percentages behind the dashboards. Every reducer is a pure function
// over its input slice: no mutation, no I/O, empty input is a valid case
// producing zeros.
package analytics

import (
	"sort"
	"time"

	"leadflow_backend/internal/leads/domain"
)

const unknownPipeline = "Unknown"

// StatusCount is one row of a status breakdown.
type StatusCount struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PipelineCount is one row of a pipeline-mix breakdown.
type PipelineCount struct {
	Pipeline   string  `json:"pipeline"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AgentCount is one row of a per-agent workload breakdown.
type AgentCount struct {
	BOEName string `json:"boeName"`
	Count   int    `json:"count"`
}

// AgentBreakdown is the per-agent workload split, with the unassigned
// remainder reported separately.
type AgentBreakdown struct {
	Agents          []AgentCount `json:"agents"`
	AssignedCount   int          `json:"assignedCount"`
	UnassignedCount int          `json:"unassignedCount"`
}

// RetryCount is one row of a retry-count histogram.
type RetryCount struct {
	Retries int `json:"retries"`
	Count   int `json:"count"`
}

// DayCount is one row of a per-day creation series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyBreakdown is the created-per-day series with derived figures.
type DailyBreakdown struct {
	Days      []DayCount `json:"days"`
	AvgPerDay float64    `json:"avgPerDay"`
	PeakDay   int        `json:"peakDay"`
}

// FollowUpSplit counts leads with a scheduled follow-up, split on the
// current time. A follow-up due exactly now is overdue.
type FollowUpSplit struct {
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"`
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// ByStatus counts leads per distinct status value, sorted descending by
// count. Ties break alphabetically so the output is deterministic.
func ByStatus(leads []domain.Lead) []StatusCount {
	counts := make(map[string]int)
	for _, lead := range leads {
		counts[string(lead.Status)]++
	}

	rows := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		rows = append(rows, StatusCount{
			Status:     status,
			Count:      count,
			Percentage: percentage(count, len(leads)),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Status < rows[j].Status
	})

	return rows
}

// ByPipeline counts leads per pipeline label. Leads without a pipeline
// fall under "Unknown".
func ByPipeline(leads []domain.Lead) []PipelineCount {
	counts := make(map[string]int)
	for _, lead := range leads {
		name := unknownPipeline
		if lead.Pipeline != nil && *lead.Pipeline != "" {
			name = *lead.Pipeline
		}
		counts[name]++
	}

	rows := make([]PipelineCount, 0, len(counts))
	for pipeline, count := range counts {
		rows = append(rows, PipelineCount{
			Pipeline:   pipeline,
			Count:      count,
			Percentage: percentage(count, len(leads)),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Pipeline < rows[j].Pipeline
	})

	return rows
}

// ByAgent counts assigned leads per agent name. Agents whose name is not
// hydrated are reported under a synthesized "BOE #<id>" label. Leads with
// no assignment only contribute to UnassignedCount.
func ByAgent(leads []domain.Lead) AgentBreakdown {
	counts := make(map[string]int)
	assigned := 0
	for _, lead := range leads {
		if lead.AssignedBOEID == nil {
			continue
		}
		assigned++

		name := "BOE #" + lead.AssignedBOEID.String()
		if lead.AssignedBOEName != nil && *lead.AssignedBOEName != "" {
			name = *lead.AssignedBOEName
		}
		counts[name]++
	}

	rows := make([]AgentCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, AgentCount{BOEName: name, Count: count})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].BOEName < rows[j].BOEName
	})

	return AgentBreakdown{
		Agents:          rows,
		AssignedCount:   assigned,
		UnassignedCount: len(leads) - assigned,
	}
}

// ByRetry builds a histogram of contact attempts, sorted ascending
// numerically.
func ByRetry(leads []domain.Lead) []RetryCount {
	counts := make(map[int]int)
	for _, lead := range leads {
		counts[lead.RetryCount]++
	}

	rows := make([]RetryCount, 0, len(counts))
	for retries, count := range counts {
		rows = append(rows, RetryCount{Retries: retries, Count: count})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Retries < rows[j].Retries
	})

	return rows
}

// ByDay counts leads per UTC calendar day of creation, sorted ascending
// by date. AvgPerDay divides the total by the number of distinct days;
// PeakDay is the highest single-day count.
func ByDay(leads []domain.Lead) DailyBreakdown {
	counts := make(map[string]int)
	for _, lead := range leads {
		day := lead.CreatedAt.UTC().Format("2006-01-02")
		counts[day]++
	}

	rows := make([]DayCount, 0, len(counts))
	peak := 0
	for date, count := range counts {
		rows = append(rows, DayCount{Date: date, Count: count})
		if count > peak {
			peak = count
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})

	avg := 0.0
	if len(rows) > 0 {
		avg = float64(len(leads)) / float64(len(rows))
	}

	return DailyBreakdown{Days: rows, AvgPerDay: avg, PeakDay: peak}
}

// SplitFollowUps splits leads with a scheduled follow-up into overdue and
// upcoming relative to now.
func SplitFollowUps(leads []domain.Lead, now time.Time) FollowUpSplit {
	var split FollowUpSplit
	for _, lead := range leads {
		if lead.NextFollowUpAt == nil {
			continue
		}
		if lead.NextFollowUpAt.After(now) {
			split.Upcoming++
		} else {
			split.Overdue++
		}
	}
	return split
}

// InactiveByStatus restricts the snapshot to terminated leads and applies
// the status breakdown.
func InactiveByStatus(leads []domain.Lead) []StatusCount {
	inactive := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if !lead.IsActive {
			inactive = append(inactive, lead)
		}
	}
	return ByStatus(inactive)
}
