package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vilaca/gitlab-insights/internal/domain"
)

// countingClient is a minimal Client that records calls.
type countingClient struct {
	issueCalls  int
	commitCalls int
	err         error
}

func (m *countingClient) GetIssues(ctx context.Context, projectID string) ([]domain.RawIssue, error) {
	m.issueCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []domain.RawIssue{{Title: "issue in " + projectID}}, nil
}

func (m *countingClient) GetCommits(ctx context.Context, projectID string) ([]domain.Commit, error) {
	m.commitCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Commit{{ID: "c1"}}, nil
}

func TestCachingClient_ServesRepeatedCallsFromCache(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := client.GetIssues(ctx, "17")
	require.NoError(t, err)
	second, err := client.GetIssues(ctx, "17")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.issueCalls)

	_, err = client.GetIssues(ctx, "18")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.issueCalls, "different project must not share a cache entry")

	_, err = client.GetCommits(ctx, "17")
	require.NoError(t, err)
	_, err = client.GetCommits(ctx, "17")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.commitCalls)
}

func TestCachingClient_DoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{err: errors.New("boom")}
	client := NewCachingClient(inner, time.Minute, zap.NewNop())

	_, err := client.GetCommits(context.Background(), "17")
	require.Error(t, err)
	_, err = client.GetCommits(context.Background(), "17")
	require.Error(t, err)

	assert.Equal(t, 2, inner.commitCalls)
}

func TestCachingClient_EntriesExpire(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, time.Minute, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	client.cache.now = func() time.Time { return now }

	_, _ = client.GetIssues(context.Background(), "17")
	now = now.Add(2 * time.Minute)
	_, _ = client.GetIssues(context.Background(), "17")

	assert.Equal(t, 2, inner.issueCalls)
}

func TestCachingClient_ZeroDurationDisablesCache(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, 0, zap.NewNop())

	_, _ = client.GetIssues(context.Background(), "17")
	_, _ = client.GetIssues(context.Background(), "17")

	assert.Equal(t, 2, inner.issueCalls)
}

func TestCachingClient_Invalidate(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, time.Minute, zap.NewNop())

	_, _ = client.GetIssues(context.Background(), "17")
	_, _ = client.GetCommits(context.Background(), "17")
	client.Invalidate("17")
	_, _ = client.GetIssues(context.Background(), "17")
	_, _ = client.GetCommits(context.Background(), "17")

	assert.Equal(t, 2, inner.issueCalls)
	assert.Equal(t, 2, inner.commitCalls)
}

func TestUserMessage(t *testing.T) {
	wrapped := errors.Join(errors.New("failed to get issues"), NewAPIError(404, "404 Project Not Found"))

	assert.Equal(t, "404 Project Not Found", UserMessage(wrapped))
	assert.Equal(t, "API returned status 500", UserMessage(NewAPIError(500, "")))
	assert.Equal(t, "dial tcp: refused", UserMessage(errors.New("dial tcp: refused")))
}

func TestBaseClient_DoRateLimitedHonoursContext(t *testing.T) {
	c := NewBaseClient(ClientConfig{}, nil)
	for i := 0; i < MaxConcurrentRequests; i++ {
		c.Semaphore <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := c.DoRateLimited(ctx, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, DefaultMaxPages, c.MaxPages)
}
