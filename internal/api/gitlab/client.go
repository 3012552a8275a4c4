package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/vilaca/gitlab-insights/internal/api"
	"github.com/vilaca/gitlab-insights/internal/domain"
	"github.com/vilaca/gitlab-insights/internal/metrics"
)

// Client implements api.Client for GitLab.
type Client struct {
	*api.BaseClient
}

// NewClient creates a new GitLab client.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	return &Client{
		BaseClient: api.NewBaseClient(config, httpClient),
	}
}

// GetIssues retrieves all issues of a project.
func (c *Client) GetIssues(ctx context.Context, projectID string) ([]domain.RawIssue, error) {
	u := fmt.Sprintf("%s/api/v4/projects/%s/issues?pagination=keyset&per_page=1000", c.BaseURL, url.PathEscape(projectID))

	var glIssues []gitlabIssue
	if err := collect(ctx, c, "issues", u, &glIssues); err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}

	return convertIssues(glIssues), nil
}

// GetCommits retrieves the commits of a project's default branch.
func (c *Client) GetCommits(ctx context.Context, projectID string) ([]domain.Commit, error) {
	u := fmt.Sprintf("%s/api/v4/projects/%s/repository/commits?per_page=100", c.BaseURL, url.PathEscape(projectID))

	var glCommits []gitlabCommit
	if err := collect(ctx, c, "commits", u, &glCommits); err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}

	return convertCommits(glCommits), nil
}

// collect fetches a listing and keeps following rel="next" links until the
// API stops sending one or MaxPages pages have been read.
func collect[T any](ctx context.Context, c *Client, endpoint, pageURL string, result *[]T) error {
	for page := 0; pageURL != "" && page < c.MaxPages; page++ {
		var items []T
		next, err := c.doRequest(ctx, endpoint, pageURL, &items)
		if err != nil {
			return err
		}
		*result = append(*result, items...)
		pageURL = next
	}
	if *result == nil {
		*result = []T{}
	}
	return nil
}

// doRequest performs one GET against the GitLab API, decodes the body into
// result and returns the next page link, if any.
func (c *Client) doRequest(ctx context.Context, endpoint, pageURL string, result interface{}) (string, error) {
	var next string
	err := c.DoRateLimited(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("PRIVATE-TOKEN", c.Token)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.HTTPClient.Do(req)
		metrics.GitLabRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.GitLabRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		metrics.GitLabRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return api.NewAPIError(resp.StatusCode, errorMessage(body))
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		next = nextLink(resp.Header.Get("Link"))
		return nil
	})
	return next, err
}

// errorMessage extracts the "message" of a GitLab error body. GitLab sends a
// string for most errors and an object for validation errors; the latter is
// returned as its JSON text.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Message) > 0 && string(payload.Message) != "null" {
		var text string
		if err := json.Unmarshal(payload.Message, &text); err == nil {
			return text
		}
		return string(payload.Message)
	}
	return payload.Error
}

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// nextLink returns the rel="next" target of an RFC 8288 Link header.
func nextLink(header string) string {
	m := nextLinkPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

func convertIssues(glIssues []gitlabIssue) []domain.RawIssue {
	issues := make([]domain.RawIssue, len(glIssues))
	for i, gli := range glIssues {
		assignees := make([]domain.RawAssignee, len(gli.Assignees))
		for j, a := range gli.Assignees {
			assignees[j] = domain.RawAssignee{Name: a.Name}
		}
		issues[i] = domain.RawIssue{
			Title:       gli.Title,
			Description: gli.Description,
			CreatedAt:   gli.CreatedAt,
			State:       gli.State,
			Assignees:   assignees,
		}
	}
	return issues
}

func convertCommits(glCommits []gitlabCommit) []domain.Commit {
	commits := make([]domain.Commit, len(glCommits))
	for i, glc := range glCommits {
		committed := glc.CommittedDate
		if committed == "" {
			committed = glc.CommittedDateCamel
		}
		commits[i] = domain.Commit{
			ID:            glc.ID,
			ShortID:       glc.ShortID,
			Title:         glc.Title,
			AuthorName:    glc.AuthorName,
			CommittedDate: committed,
		}
	}
	return commits
}

// GitLab API response types
type gitlabIssue struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	CreatedAt   string           `json:"created_at"`
	State       string           `json:"state"`
	Assignees   []gitlabAssignee `json:"assignees"`
}

type gitlabAssignee struct {
	Name string `json:"name"`
}

type gitlabCommit struct {
	ID            string `json:"id"`
	ShortID       string `json:"short_id"`
	Title         string `json:"title"`
	AuthorName    string `json:"author_name"`
	CommittedDate string `json:"committed_date"`
	// GraphQL-shaped payloads name the field committedDate.
	CommittedDateCamel string `json:"committedDate"`
}
