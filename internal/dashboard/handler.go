package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vilaca/gitlab-insights/internal/api"
	"github.com/vilaca/gitlab-insights/internal/domain"
	"github.com/vilaca/gitlab-insights/internal/logger"
	"github.com/vilaca/gitlab-insights/internal/service"
)

// InsightsService is what the handler needs from the service layer.
type InsightsService interface {
	Issues(ctx context.Context, q service.IssueQuery) (*service.IssuePage, error)
	Commits(ctx context.Context, projectID string, page int) (*service.CommitPage, error)
	WeekdayChart(ctx context.Context, projectID string) ([]domain.DayBucket, error)
	Overview(ctx context.Context, projectID string) (*service.Overview, error)
	Refresh(projectID string)
}

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	renderer         Renderer
	logger           *zap.Logger
	insights         InsightsService
	defaultProjectID string
	requestTimeout   time.Duration
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer         Renderer
	Logger           *zap.Logger
	Insights         InsightsService
	DefaultProjectID string
	RequestTimeout   time.Duration
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		renderer:         cfg.Renderer,
		logger:           cfg.Logger,
		insights:         cfg.Insights,
		defaultProjectID: cfg.DefaultProjectID,
		requestTimeout:   timeout,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/issues", h.handleIssues)
	mux.HandleFunc("/commits", h.handleCommits)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/issues", h.handleIssuesAPI)
	mux.HandleFunc("/api/commits", h.handleCommitsAPI)
	mux.HandleFunc("/api/commits/weekdays", h.handleWeekdaysAPI)
	mux.HandleFunc("/api/overview", h.handleOverviewAPI)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.log(r).Error("failed to render health", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleIndex serves the landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.renderer.RenderIndex(w, h.pageContext(r)); err != nil {
		h.log(r).Error("failed to render index", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleIssues serves the filtered, paginated issue list.
// Query params: project, name (repeatable), state (repeatable), page, theme, refresh.
func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	pc, ok := h.requireProject(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	q := h.issueQuery(r, pc.ProjectID)
	page, err := h.insights.Issues(ctx, q)
	if err != nil {
		h.renderFetchError(w, r, pc, err)
		return
	}

	view := IssuesView{
		PageContext:    pc,
		Page:           page,
		SelectedNames:  q.Names,
		SelectedStates: q.States,
	}
	if err := h.renderer.RenderIssues(w, view); err != nil {
		h.log(r).Error("failed to render issues", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleCommits serves the commit list, or the weekday chart with view=chart.
func (h *Handler) handleCommits(w http.ResponseWriter, r *http.Request) {
	pc, ok := h.requireProject(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var renderErr error
	switch r.URL.Query().Get("view") {
	case "chart":
		buckets, err := h.insights.WeekdayChart(ctx, pc.ProjectID)
		if err != nil {
			h.renderFetchError(w, r, pc, err)
			return
		}
		renderErr = h.renderer.RenderWeekdayChart(w, ChartView{PageContext: pc, Buckets: buckets})
	default:
		page, err := h.insights.Commits(ctx, pc.ProjectID, parsePage(r))
		if err != nil {
			h.renderFetchError(w, r, pc, err)
			return
		}
		renderErr = h.renderer.RenderCommits(w, CommitsView{PageContext: pc, Page: page})
	}

	if renderErr != nil {
		h.log(r).Error("failed to render commits", zap.Error(renderErr))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleIssuesAPI returns the same data as /issues as JSON.
func (h *Handler) handleIssuesAPI(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.requireProjectJSON(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	page, err := h.insights.Issues(ctx, h.issueQuery(r, projectID))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	h.writeJSON(w, r, page)
}

// handleCommitsAPI returns one page of commits as JSON.
func (h *Handler) handleCommitsAPI(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.requireProjectJSON(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	page, err := h.insights.Commits(ctx, projectID, parsePage(r))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	h.writeJSON(w, r, page)
}

// handleWeekdaysAPI returns the weekday buckets as JSON.
func (h *Handler) handleWeekdaysAPI(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.requireProjectJSON(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	buckets, err := h.insights.WeekdayChart(ctx, projectID)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	h.writeJSON(w, r, map[string]interface{}{"buckets": buckets})
}

// handleOverviewAPI returns issue counts and weekday buckets together.
func (h *Handler) handleOverviewAPI(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.requireProjectJSON(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	overview, err := h.insights.Overview(ctx, projectID)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	h.writeJSON(w, r, overview)
}

func (h *Handler) issueQuery(r *http.Request, projectID string) service.IssueQuery {
	query := r.URL.Query()
	return service.IssueQuery{
		ProjectID: projectID,
		Names:     nonEmpty(query["name"]),
		States:    nonEmpty(query["state"]),
		Page:      parsePage(r),
	}
}

// pageContext reads project and theme from the request. A "refresh" value
// drops cached API responses for the project first.
func (h *Handler) pageContext(r *http.Request) PageContext {
	query := r.URL.Query()
	projectID := strings.TrimSpace(query.Get("project"))
	if projectID == "" {
		projectID = h.defaultProjectID
	}
	if projectID != "" && query.Get("refresh") != "" {
		h.insights.Refresh(projectID)
		query.Del("refresh")
	}
	return PageContext{
		ProjectID: projectID,
		Theme:     ParseTheme(query.Get("theme")),
		Path:      r.URL.Path,
		Query:     query,
	}
}

func (h *Handler) requireProject(w http.ResponseWriter, r *http.Request) (PageContext, bool) {
	pc := h.pageContext(r)
	if pc.ProjectID == "" {
		http.Error(w, "Missing project parameter", http.StatusBadRequest)
		return pc, false
	}
	return pc, true
}

func (h *Handler) requireProjectJSON(w http.ResponseWriter, r *http.Request) (string, bool) {
	pc := h.pageContext(r)
	if pc.ProjectID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "missing project parameter"})
		return "", false
	}
	return pc.ProjectID, true
}

// renderFetchError shows the API's message. Nothing else of the page is
// rendered, so a failed fetch never shows partial data.
func (h *Handler) renderFetchError(w http.ResponseWriter, r *http.Request, pc PageContext, err error) {
	w.WriteHeader(http.StatusBadGateway)
	if rerr := h.renderer.RenderError(w, pc, api.UserMessage(err)); rerr != nil {
		h.log(r).Error("failed to render error page", zap.Error(rerr))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": api.UserMessage(err)}); encErr != nil {
		h.log(r).Error("failed to encode error", zap.Error(encErr))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log(r).Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

func (h *Handler) log(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), h.logger)
}

// parsePage reads the page parameter; anything unparseable means page 1.
// Range clamping is left to the paginator.
func parsePage(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return p
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
