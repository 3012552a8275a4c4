package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

func commitsAt(dates ...string) []domain.Commit {
	commits := make([]domain.Commit, len(dates))
	for i, d := range dates {
		commits[i] = domain.Commit{CommittedDate: d}
	}
	return commits
}

func TestAggregateByWeekday_MondaysAndFriday(t *testing.T) {
	t.Parallel()

	commits := commitsAt(
		"2024-01-05T12:00:00Z",          // Friday
		"2024-01-01T09:00:00Z",          // Monday
		"2024-01-08T09:00:00Z",          // Monday
		"2024-01-15T17:45:10.000+00:00", // Monday
	)

	assert.Equal(t, []domain.DayBucket{
		{Name: "Monday", Count: 3},
		{Name: "Friday", Count: 1},
	}, AggregateByWeekday(commits))
}

func TestAggregateByWeekday_CalendarOrder(t *testing.T) {
	t.Parallel()

	commits := commitsAt(
		"2024-01-07T10:00:00Z", // Sunday
		"2024-01-06T10:00:00Z", // Saturday
		"2024-01-03T10:00:00Z", // Wednesday
		"2024-01-02T10:00:00Z", // Tuesday
		"2024-01-07T11:00:00Z", // Sunday
	)

	assert.Equal(t, []domain.DayBucket{
		{Name: "Tuesday", Count: 1},
		{Name: "Wednesday", Count: 1},
		{Name: "Saturday", Count: 1},
		{Name: "Sunday", Count: 2},
	}, AggregateByWeekday(commits))
}

func TestAggregateByWeekday_UsesUTC(t *testing.T) {
	t.Parallel()

	// Monday 00:30 in Oslo is Sunday 23:30 UTC.
	got := AggregateByWeekday(commitsAt("2024-01-08T00:30:00+01:00"))

	assert.Equal(t, []domain.DayBucket{{Name: "Sunday", Count: 1}}, got)
}

func TestAggregateByWeekday_SkipsUnparseable(t *testing.T) {
	t.Parallel()

	commits := commitsAt("2024-01-01T09:00:00Z", "not a date", "", "2024-01-01T10:00:00Z")

	buckets, skipped := AggregateByWeekdayCounted(commits)

	assert.Equal(t, []domain.DayBucket{{Name: "Monday", Count: 2}}, buckets)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, buckets, AggregateByWeekday(commits))
}

func TestAggregateByWeekday_Empty(t *testing.T) {
	t.Parallel()

	got := AggregateByWeekday(nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
