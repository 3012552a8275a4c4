package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestNormalizeIssue_Description(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"null", nil, "No description"},
		{"empty", strPtr(""), "No description"},
		{"plain", strPtr("fix the build"), "fix the build"},
		{"crlf stripped", strPtr("line one\r\nline two\n\nthree\r"), "line oneline twothree"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeIssue(domain.RawIssue{Description: tt.in})
			assert.Equal(t, tt.want, got.Description)
		})
	}
}

func TestNormalizeIssue_Assignees(t *testing.T) {
	t.Parallel()

	got := NormalizeIssue(domain.RawIssue{})
	assert.Equal(t, "Unassigned", got.Assignees)

	got = NormalizeIssue(domain.RawIssue{Assignees: []domain.RawAssignee{{Name: "Kari"}}})
	assert.Equal(t, "Kari", got.Assignees)

	got = NormalizeIssue(domain.RawIssue{Assignees: []domain.RawAssignee{
		{Name: "Ola"}, {Name: "Kari"}, {Name: "Per"},
	}})
	assert.Equal(t, "Ola, Kari, Per", got.Assignees)
}

func TestNormalizeIssue_State(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		"opened":   "Open",
		"closed":   "Closed",
		"reopened": "Closed",
		"Opened":   "Closed",
		"":         "Closed",
	} {
		assert.Equal(t, want, NormalizeIssue(domain.RawIssue{State: raw}).State, "raw state %q", raw)
	}
}

func TestNormalizeIssue_CreatedAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-02T10:00:00Z", "Tue Jan 02 2024"},
		{"2022-09-14T08:31:45.120Z", "Wed Sep 14 2022"},
		// 23:30 at -02:00 is already the next day in UTC.
		{"2023-03-05T23:30:00-02:00", "Mon Mar 06 2023"},
		{"", "Invalid Date"},
		{"yesterday", "Invalid Date"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeIssue(domain.RawIssue{CreatedAt: tt.raw}).CreatedAt, "raw %q", tt.raw)
	}
}

func TestNormalizeIssues_PreservesOrderAndIsIdempotent(t *testing.T) {
	t.Parallel()

	raw := []domain.RawIssue{
		{Title: "first", State: "opened", CreatedAt: "2024-01-02T10:00:00Z"},
		{Title: "second", Description: strPtr("a\nb"), Assignees: []domain.RawAssignee{{Name: "Kari"}}},
		{Title: "third"},
	}

	first := NormalizeIssues(raw)
	second := NormalizeIssues(raw)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "first", first[0].Title)
	assert.Equal(t, "second", first[1].Title)
	assert.Equal(t, "third", first[2].Title)
	assert.Equal(t, domain.IssueRecord{
		Title:       "second",
		Description: "ab",
		Assignees:   "Kari",
		State:       "Closed",
		CreatedAt:   "Invalid Date",
	}, first[1])
}

func TestNormalizeIssues_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NormalizeIssues(nil))
}
