package report

import (
	"sort"
	"time"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

// weekOrder is the display order of weekday buckets.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekRank = func() map[string]int {
	rank := make(map[string]int, len(weekOrder))
	for i, d := range weekOrder {
		rank[d.String()] = i
	}
	return rank
}()

// AggregateByWeekday counts commits per UTC weekday of CommittedDate.
// Buckets come back Monday first; weekdays without commits are left out.
// Commits whose timestamp does not parse are skipped.
func AggregateByWeekday(commits []domain.Commit) []domain.DayBucket {
	buckets, _ := aggregate(commits)
	return buckets
}

// AggregateByWeekdayCounted is AggregateByWeekday that also reports how many
// commits were skipped for an unparseable timestamp.
func AggregateByWeekdayCounted(commits []domain.Commit) ([]domain.DayBucket, int) {
	return aggregate(commits)
}

func aggregate(commits []domain.Commit) ([]domain.DayBucket, int) {
	var buckets []domain.DayBucket
	index := make(map[string]int, len(weekOrder))
	skipped := 0

	for _, c := range commits {
		t, err := ParseTimestamp(c.CommittedDate)
		if err != nil {
			skipped++
			continue
		}
		name := t.UTC().Weekday().String()
		if i, ok := index[name]; ok {
			buckets[i].Count++
			continue
		}
		index[name] = len(buckets)
		buckets = append(buckets, domain.DayBucket{Name: name, Count: 1})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return weekRank[buckets[i].Name] < weekRank[buckets[j].Name]
	})
	if buckets == nil {
		buckets = []domain.DayBucket{}
	}
	return buckets, skipped
}
