package domain

import "strings"

// PipelineInsight returns an advisory sentence for a pipeline's share of
// the total lead volume. Rules are evaluated in priority order; the first
// match wins, so name-based rules always override share-based ones.
func PipelineInsight(pipelineName string, percentage float64) string {
	lowered := strings.ToLower(pipelineName)

	switch {
	case strings.Contains(lowered, "do not"):
		return "High rejection volume here. Review lead sourcing quality for this pipeline."
	case strings.Contains(lowered, "upload"):
		return "Leads are sitting in upload stages. Follow up faster to keep this pipeline moving."
	case percentage > 60:
		return "This pipeline is overloaded. Consider redistributing leads across agents."
	case percentage >= 25:
		return "Healthy share of total volume. Keep the current cadence."
	case percentage < 25:
		return "Low volume in this pipeline. Check whether leads are being routed here at all."
	default:
		// Unreachable given the rules above; kept so every pipeline gets
		// some advisory text.
		return "Monitor this pipeline's balance against the rest of the portfolio."
	}
}
