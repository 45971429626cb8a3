package repository

import "context"

// RevenueSummary aggregates the conversion ledger across all converted
// leads.
type RevenueSummary struct {
	Conversions int     `json:"conversions"`
	TotalFee    float64 `json:"totalFee"`
	TotalPaid   float64 `json:"totalPaid"`
	TotalDue    float64 `json:"totalDue"`
}

// GetRevenueSummary sums the stored conversion records in one query.
func (r *Repository) GetRevenueSummary(ctx context.Context) (RevenueSummary, error) {
	var summary RevenueSummary
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(course_fee), 0),
			COALESCE(SUM(amount_paid), 0),
			COALESCE(SUM(due_amount), 0)
		FROM conversion_details
	`).Scan(&summary.Conversions, &summary.TotalFee, &summary.TotalPaid, &summary.TotalDue)
	return summary, err
}
