package report

import (
	"slices"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

// FilterIssues keeps the records matching every non-empty selection.
//
// A record matches names when its whole Assignees string equals one of the
// selected values; multi-assignee issues are not split. A record matches
// states when its State is selected. The name filter runs first, then the
// state filter. Input order is preserved and the input slice is not modified.
func FilterIssues(records []domain.IssueRecord, names, states []string) []domain.IssueRecord {
	result := slices.Clone(records)
	if len(names) > 0 {
		result = keep(result, func(r domain.IssueRecord) bool {
			return slices.Contains(names, r.Assignees)
		})
	}
	if len(states) > 0 {
		result = keep(result, func(r domain.IssueRecord) bool {
			return slices.Contains(states, r.State)
		})
	}
	return result
}

func keep(records []domain.IssueRecord, match func(domain.IssueRecord) bool) []domain.IssueRecord {
	kept := make([]domain.IssueRecord, 0, len(records))
	for _, r := range records {
		if match(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// AssigneeOptions lists the distinct Assignees values in first-seen order.
// These are the values FilterIssues can match by name.
func AssigneeOptions(records []domain.IssueRecord) []string {
	seen := make(map[string]bool, len(records))
	options := []string{}
	for _, r := range records {
		if !seen[r.Assignees] {
			seen[r.Assignees] = true
			options = append(options, r.Assignees)
		}
	}
	return options
}

// StateOptions lists the selectable states.
func StateOptions() []string {
	return []string{domain.StateOpen, domain.StateClosed}
}

// CountByState returns how many records are in each state.
func CountByState(records []domain.IssueRecord) map[string]int {
	counts := map[string]int{domain.StateOpen: 0, domain.StateClosed: 0}
	for _, r := range records {
		counts[r.State]++
	}
	return counts
}
