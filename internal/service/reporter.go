package service

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// ErrorReporter forwards fetch failures to an error tracker.
type ErrorReporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}

// SentryReporter reports to Sentry, using the request's hub when the HTTP
// layer attached one.
type SentryReporter struct{}

func NewSentryReporter() *SentryReporter {
	return &SentryReporter{}
}

func (r *SentryReporter) Report(ctx context.Context, err error, tags map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// NopReporter drops every report. Used when Sentry is not configured.
type NopReporter struct{}

func (NopReporter) Report(context.Context, error, map[string]string) {}
