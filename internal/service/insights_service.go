package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vilaca/gitlab-insights/internal/api"
	"github.com/vilaca/gitlab-insights/internal/domain"
	"github.com/vilaca/gitlab-insights/internal/logger"
	"github.com/vilaca/gitlab-insights/internal/metrics"
	"github.com/vilaca/gitlab-insights/internal/report"
)

// Sources used in logs, metrics and error tags.
const (
	SourceIssues  = "issues"
	SourceCommits = "commits"
)

// InsightsService fetches issues and commits for one request and shapes
// them with the report package. It keeps no per-project state itself.
type InsightsService struct {
	client   api.Client
	reporter ErrorReporter
	logger   *zap.Logger
	pageSize int
}

// NewInsightsService creates a new insights service.
func NewInsightsService(client api.Client, reporter ErrorReporter, logger *zap.Logger, pageSize int) *InsightsService {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &InsightsService{
		client:   client,
		reporter: reporter,
		logger:   logger,
		pageSize: pageSize,
	}
}

// IssueQuery selects a page of filtered issues.
type IssueQuery struct {
	ProjectID string
	Names     []string
	States    []string
	Page      int
}

// Pagination describes the page being shown.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// FilterOptions are the values a user can pick from.
type FilterOptions struct {
	Names  []string `json:"names"`
	States []string `json:"states"`
}

// IssuePage is one page of filtered, normalized issues.
type IssuePage struct {
	Issues     []domain.IssueRecord `json:"issues"`
	Pagination Pagination           `json:"pagination"`
	Options    FilterOptions        `json:"options"`
}

// CommitPage is one page of commits.
type CommitPage struct {
	Commits    []domain.Commit `json:"commits"`
	Pagination Pagination      `json:"pagination"`
}

// Overview summarizes a project's issues and commits.
type Overview struct {
	ProjectID     string             `json:"projectId"`
	IssueCount    int                `json:"issueCount"`
	IssuesByState map[string]int     `json:"issuesByState"`
	CommitCount   int                `json:"commitCount"`
	Weekdays      []domain.DayBucket `json:"weekdays"`
}

// Invalidator is implemented by clients that cache responses.
type Invalidator interface {
	Invalidate(projectID string)
}

// Issues fetches, normalizes, filters and paginates a project's issues.
// Filter options are computed from the unfiltered set so that narrowing one
// criterion does not hide choices of the other.
func (s *InsightsService) Issues(ctx context.Context, q IssueQuery) (*IssuePage, error) {
	records, err := s.fetchIssues(ctx, ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}

	filtered := report.FilterIssues(records, q.Names, q.States)
	pager := report.NewPaginator(filtered, s.pageSize)
	pager.SetPage(q.Page)

	return &IssuePage{
		Issues:     pager.Items(),
		Pagination: paginationOf(pager),
		Options: FilterOptions{
			Names:  report.AssigneeOptions(records),
			States: report.StateOptions(),
		},
	}, nil
}

// Commits returns one page of a project's commits.
func (s *InsightsService) Commits(ctx context.Context, projectID string, page int) (*CommitPage, error) {
	commits, err := s.fetchCommits(ctx, ctx, projectID)
	if err != nil {
		return nil, err
	}

	pager := report.NewPaginator(commits, s.pageSize)
	pager.SetPage(page)

	return &CommitPage{
		Commits:    pager.Items(),
		Pagination: paginationOf(pager),
	}, nil
}

// WeekdayChart counts a project's commits per weekday.
func (s *InsightsService) WeekdayChart(ctx context.Context, projectID string) ([]domain.DayBucket, error) {
	commits, err := s.fetchCommits(ctx, ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, commits), nil
}

// Overview fetches issues and commits concurrently. Either failure fails the
// whole overview; no partial data is returned.
func (s *InsightsService) Overview(ctx context.Context, projectID string) (*Overview, error) {
	var (
		records []domain.IssueRecord
		commits []domain.Commit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.fetchIssues(gctx, ctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		commits, err = s.fetchCommits(gctx, ctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		ProjectID:     projectID,
		IssueCount:    len(records),
		IssuesByState: report.CountByState(records),
		CommitCount:   len(commits),
		Weekdays:      s.aggregate(ctx, commits),
	}, nil
}

// Refresh drops cached responses for a project, if the client caches.
func (s *InsightsService) Refresh(projectID string) {
	if inv, ok := s.client.(Invalidator); ok {
		inv.Invalidate(projectID)
	}
}

// fetchIssues and fetchCommits take the caller's context as parent; it
// differs from ctx only inside Overview's errgroup.
func (s *InsightsService) fetchIssues(ctx, parent context.Context, projectID string) ([]domain.IssueRecord, error) {
	raw, err := s.client.GetIssues(ctx, projectID)
	if err != nil {
		return nil, s.fail(ctx, parent, SourceIssues, projectID, err)
	}
	return report.NormalizeIssues(raw), nil
}

func (s *InsightsService) fetchCommits(ctx, parent context.Context, projectID string) ([]domain.Commit, error) {
	commits, err := s.client.GetCommits(ctx, projectID)
	if err != nil {
		return nil, s.fail(ctx, parent, SourceCommits, projectID, err)
	}
	return commits, nil
}

func (s *InsightsService) aggregate(ctx context.Context, commits []domain.Commit) []domain.DayBucket {
	buckets, skipped := report.AggregateByWeekdayCounted(commits)
	if skipped > 0 {
		metrics.CommitsSkippedTotal.Add(float64(skipped))
		s.log(ctx).Warn("skipped commits with unparseable dates", zap.Int("skipped", skipped))
	}
	return buckets
}

func (s *InsightsService) fail(ctx, parent context.Context, source, projectID string, err error) error {
	// ctx ended while parent is still live: a sibling fetch failed and
	// cancelled the group, and that failure is the one reported. Timeouts
	// and disconnects end parent too and are reported here.
	if cancelledBySibling(ctx, parent, err) {
		return fmt.Errorf("%s: %w", source, err)
	}

	metrics.FetchFailuresTotal.WithLabelValues(source).Inc()
	s.log(ctx).Error("fetch failed",
		zap.String("source", source),
		zap.String("project_id", projectID),
		zap.Error(err),
	)
	s.reporter.Report(ctx, err, map[string]string{
		"source":     source,
		"project_id": projectID,
		"platform":   domain.PlatformGitLab,
	})
	return fmt.Errorf("%s: %w", source, err)
}

func cancelledBySibling(ctx, parent context.Context, err error) bool {
	ctxErr := ctx.Err()
	return ctxErr != nil && parent.Err() == nil && errors.Is(err, ctxErr)
}

// log prefers the request-scoped logger set by the HTTP middleware.
func (s *InsightsService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

func paginationOf[T any](p *report.Paginator[T]) Pagination {
	return Pagination{
		Page:       p.Page(),
		PageSize:   p.PageSize(),
		Total:      p.Total(),
		TotalPages: p.PageCount(),
		HasNext:    p.HasNext(),
		HasPrev:    p.HasPrev(),
	}
}
