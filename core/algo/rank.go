package algo

import (
	"sort"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// RankWorkflows sorts workflow statistics by combined score in descending order.
// The sort is stable, so ties keep their incoming order.
func RankWorkflows(stats []schema.WorkflowStats) []schema.WorkflowStats {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CombinedScore > stats[j].CombinedScore
	})
	return stats
}

// TopWorkflows returns the first 'limit' workflows. If limit is greater than the
// number of workflows, all of them are returned.
func TopWorkflows(stats []schema.WorkflowStats, limit int) []schema.WorkflowStats {
	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// RankRepositories flattens a repository rollup, worst scorecard first. Ties are
// broken by problematic count and then by name.
func RankRepositories(summaries map[string]schema.RepositorySummary) []schema.RepositorySummary {
	repos := make([]schema.RepositorySummary, 0, len(summaries))
	for _, s := range summaries {
		repos = append(repos, s)
	}
	sort.Slice(repos, func(i, j int) bool {
		if repos[i].ProblematicPercent != repos[j].ProblematicPercent {
			return repos[i].ProblematicPercent > repos[j].ProblematicPercent
		}
		if repos[i].ProblematicWorkflows != repos[j].ProblematicWorkflows {
			return repos[i].ProblematicWorkflows > repos[j].ProblematicWorkflows
		}
		return repos[i].Repository < repos[j].Repository
	})
	return repos
}

// RankUsage sorts repository usage by monthly minutes in descending order.
func RankUsage(usage []schema.RepositoryUsage) []schema.RepositoryUsage {
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].MonthlyMinutes != usage[j].MonthlyMinutes {
			return usage[i].MonthlyMinutes > usage[j].MonthlyMinutes
		}
		return usage[i].Repository < usage[j].Repository
	})
	return usage
}
