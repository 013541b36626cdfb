package schema

// EnrichedWorkflowStats adds presentation data to a WorkflowStats.
type EnrichedWorkflowStats struct {
	Rank               int     `json:"rank"`
	DailyImpactMinutes float64 `json:"daily_impact_minutes"`
	WorkflowStats
}

// EnrichWorkflows adds rank and daily impact to a ranked list of workflow statistics.
func EnrichWorkflows(stats []WorkflowStats) []EnrichedWorkflowStats {
	output := make([]EnrichedWorkflowStats, len(stats))
	for i, s := range stats {
		output[i] = EnrichedWorkflowStats{
			Rank:               i + 1,
			DailyImpactMinutes: s.DailyImpactMinutes(),
			WorkflowStats:      s,
		}
	}
	return output
}
