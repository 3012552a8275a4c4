package dashboard

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vilaca/gitlab-insights/internal/domain"
	"github.com/vilaca/gitlab-insights/internal/report"
	"github.com/vilaca/gitlab-insights/internal/service"
)

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderIndex(w io.Writer, p PageContext) error
	RenderHealth(w io.Writer) error
	RenderIssues(w io.Writer, v IssuesView) error
	RenderCommits(w io.Writer, v CommitsView) error
	RenderWeekdayChart(w io.Writer, v ChartView) error
	RenderError(w io.Writer, p PageContext, message string) error
}

// IssuesView is what the issues page shows.
type IssuesView struct {
	PageContext
	Page           *service.IssuePage
	SelectedNames  []string
	SelectedStates []string
}

// CommitsView is what the commit list shows.
type CommitsView struct {
	PageContext
	Page *service.CommitPage
}

// ChartView is what the weekday chart shows.
type ChartView struct {
	PageContext
	Buckets []domain.DayBucket
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct {
	// All HTML is embedded in methods, no external templates needed
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (r *HTMLRenderer) RenderIndex(w io.Writer, p PageContext) error {
	var sb strings.Builder
	sb.WriteString(htmlHead("Overview", p.Theme))
	sb.WriteString(`<h1>GitLab Insights</h1>`)
	sb.WriteString(buildNavigation(p))
	sb.WriteString(`<div class="card"><h2>Welcome</h2>`)
	if p.ProjectID == "" {
		sb.WriteString(`<p class="meta-text">No project selected. Add <code>?project=&lt;id&gt;</code> to the URL or set GITLAB_PROJECT_ID.</p>`)
	} else {
		fmt.Fprintf(&sb, `<p>Project <b>%s</b>: browse its <a href="%s">issues</a>, <a href="%s">commits</a> or the <a href="%s">commits per weekday</a> chart.</p>`,
			escapeHTML(p.ProjectID),
			escapeHTML(p.pageLink("/issues")),
			escapeHTML(p.pageLink("/commits")),
			escapeHTML(p.pageLink("/commits", "view", "chart")))
	}
	sb.WriteString(`</div>`)
	sb.WriteString(htmlFooter())

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderError shows a failed fetch. message is shown as the server sent it.
func (r *HTMLRenderer) RenderError(w io.Writer, p PageContext, message string) error {
	var sb strings.Builder
	sb.WriteString(htmlHead("Error", p.Theme))
	sb.WriteString(buildNavigation(p))
	fmt.Fprintf(&sb, `<div class="error"><h3>An error occurred:</h3>%s</div>`, escapeHTML(message))
	sb.WriteString(htmlFooter())

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *HTMLRenderer) RenderIssues(w io.Writer, v IssuesView) error {
	var sb strings.Builder
	sb.WriteString(htmlHead("Issues", v.Theme))
	sb.WriteString(`<h1>Issues</h1>`)
	sb.WriteString(buildNavigation(v.PageContext))
	r.writeIssueFilters(&sb, v)

	if len(v.Page.Issues) == 0 {
		sb.WriteString(`<div class="empty">No issues match the selected filters.</div>`)
	}
	for _, issue := range v.Page.Issues {
		r.writeIssueCard(&sb, issue)
	}

	pg := v.Page.Pagination
	sb.WriteString(paginationNav(v.PageContext, pg.Page, pg.TotalPages, pg.HasPrev, pg.HasNext))
	sb.WriteString(htmlFooter())

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeIssueFilters renders the name and state checkboxes. Submitting the
// form drops the page parameter, so a new selection starts on page 1.
func (r *HTMLRenderer) writeIssueFilters(sb *strings.Builder, v IssuesView) {
	sb.WriteString(`<form class="card filters" method="get" action="/issues">`)
	fmt.Fprintf(sb, `<input type="hidden" name="project" value="%s">`, escapeHTML(v.ProjectID))
	if v.Theme == ThemeDark {
		sb.WriteString(`<input type="hidden" name="theme" value="dark">`)
	}

	writeCheckboxGroup(sb, "Select names", "name", v.Page.Options.Names, v.SelectedNames)
	writeCheckboxGroup(sb, "Select states", "state", v.Page.Options.States, v.SelectedStates)

	fmt.Fprintf(sb, `<div><button type="submit">Apply</button> <span class="meta-text">%d matching</span></div>`, v.Page.Pagination.Total)
	sb.WriteString(`</form>`)
}

func writeCheckboxGroup(sb *strings.Builder, legend, field string, options, selected []string) {
	fmt.Fprintf(sb, `<div class="filter-group"><fieldset><legend>%s</legend>`, escapeHTML(legend))
	for _, opt := range options {
		checked := ""
		if slices.Contains(selected, opt) {
			checked = " checked"
		}
		fmt.Fprintf(sb, `<label><input type="checkbox" name="%s" value="%s"%s> %s</label><br>`,
			field, escapeHTML(opt), checked, escapeHTML(opt))
	}
	sb.WriteString(`</fieldset></div>`)
}

func (r *HTMLRenderer) writeIssueCard(sb *strings.Builder, issue domain.IssueRecord) {
	badge := "closed"
	if issue.State == domain.StateOpen {
		badge = "open"
	}
	fmt.Fprintf(sb, `<div class="card issue">
		<div><b>Title:</b> %s</div>
		<div><b>Description:</b> %s</div>
		<div><b>Assigned to:</b> %s</div>
		<div><b>State:</b> <span class="state-badge %s">%s</span></div>
		<div><b>Created on:</b> %s</div>
	</div>`,
		escapeHTML(issue.Title),
		escapeHTML(issue.Description),
		escapeHTML(issue.Assignees),
		badge, escapeHTML(issue.State),
		escapeHTML(issue.CreatedAt))
}

func (r *HTMLRenderer) RenderCommits(w io.Writer, v CommitsView) error {
	var sb strings.Builder
	sb.WriteString(htmlHead("Commits", v.Theme))
	sb.WriteString(`<h1>Commits</h1>`)
	sb.WriteString(buildNavigation(v.PageContext))

	if len(v.Page.Commits) == 0 {
		sb.WriteString(`<div class="empty">No commits found.</div>`)
	}
	for _, c := range v.Page.Commits {
		fmt.Fprintf(&sb, `<div class="card commit">
		<div><b>%s</b> <span class="meta-text">%s</span></div>
		<div class="meta-text">%s committed on %s</div>
	</div>`,
			escapeHTML(c.Title),
			escapeHTML(c.ShortID),
			escapeHTML(c.AuthorName),
			escapeHTML(formatCommitDate(c.CommittedDate)))
	}

	pg := v.Page.Pagination
	sb.WriteString(paginationNav(v.PageContext, pg.Page, pg.TotalPages, pg.HasPrev, pg.HasNext))
	sb.WriteString(htmlFooter())

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderWeekdayChart draws the weekday buckets as a CSS bar chart, bar
// heights relative to the busiest day.
func (r *HTMLRenderer) RenderWeekdayChart(w io.Writer, v ChartView) error {
	var sb strings.Builder
	sb.WriteString(htmlHead("Commits per weekday", v.Theme))
	sb.WriteString(`<h1>Commits per weekday</h1>`)
	sb.WriteString(buildNavigation(v.PageContext))
	sb.WriteString(`<div class="card"><h3>Number of commits for each day in the week</h3>`)

	if len(v.Buckets) == 0 {
		sb.WriteString(`<div class="empty">No commits to chart.</div>`)
	} else {
		peak := 0
		for _, b := range v.Buckets {
			peak = max(peak, b.Count)
		}
		sb.WriteString(`<div class="chart" role="img" aria-label="commit amount per weekday">`)
		for _, b := range v.Buckets {
			fmt.Fprintf(&sb, `<div class="bar-wrap" title="%s: %d"><span class="bar-count">%d</span><div class="bar" style="height: %d%%"></div><span class="bar-label">%s</span></div>`,
				escapeHTML(b.Name), b.Count, b.Count, b.Count*100/peak, escapeHTML(b.Name))
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div>`)
	sb.WriteString(htmlFooter())

	_, err := io.WriteString(w, sb.String())
	return err
}

// formatCommitDate shows commit dates like issue dates, or the raw text when
// it does not parse.
func formatCommitDate(raw string) string {
	if formatted := report.FormatDate(raw); formatted != domain.InvalidDate {
		return formatted
	}
	return raw
}
