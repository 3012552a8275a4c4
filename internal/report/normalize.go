package report

import (
	"strings"
	"time"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

// DateLayout is the rendering used for IssueRecord.CreatedAt, e.g. "Tue Jan 02 2024".
const DateLayout = "Mon Jan 02 2006"

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// NormalizeIssues converts raw issues to display records, preserving order.
func NormalizeIssues(raw []domain.RawIssue) []domain.IssueRecord {
	records := make([]domain.IssueRecord, len(raw))
	for i, r := range raw {
		records[i] = NormalizeIssue(r)
	}
	return records
}

// NormalizeIssue converts a single raw issue. It never fails: missing values
// fall back to the placeholders in the domain package.
func NormalizeIssue(raw domain.RawIssue) domain.IssueRecord {
	return domain.IssueRecord{
		Title:       raw.Title,
		Description: normalizeDescription(raw.Description),
		CreatedAt:   FormatDate(raw.CreatedAt),
		Assignees:   joinAssignees(raw.Assignees),
		State:       normalizeState(raw.State),
	}
}

func normalizeDescription(desc *string) string {
	if desc == nil || *desc == "" {
		return domain.NoDescription
	}
	return lineBreaks.Replace(*desc)
}

// FormatDate renders an ISO-8601 timestamp as a UTC calendar date.
func FormatDate(raw string) string {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return domain.InvalidDate
	}
	return t.UTC().Format(DateLayout)
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
}

func joinAssignees(assignees []domain.RawAssignee) string {
	if len(assignees) == 0 {
		return domain.Unassigned
	}
	names := make([]string, len(assignees))
	for i, a := range assignees {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func normalizeState(state string) string {
	if state == domain.GitLabStateOpened {
		return domain.StateOpen
	}
	return domain.StateClosed
}
