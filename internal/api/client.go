package api

import (
	"context"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

// Client defines the interface for issue and commit sources.
// Consumers depend on this interface, not on a concrete platform client.
type Client interface {
	// GetIssues returns the raw issues of a project, in API order.
	GetIssues(ctx context.Context, projectID string) ([]domain.RawIssue, error)

	// GetCommits returns the commits of a project's default branch.
	GetCommits(ctx context.Context, projectID string) ([]domain.Commit, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
	// MaxPages bounds how many "next" links are followed for one listing.
	MaxPages int
}
