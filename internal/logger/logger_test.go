package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextOr_NilFallbackIsGlobal(t *testing.T) {
	assert.Same(t, zap.L(), FromContextOr(context.Background(), nil))
}

func TestFromContextOr_ReturnsAttachedLogger(t *testing.T) {
	l := zap.NewNop()
	ctx := WithContext(context.Background(), l)

	assert.Same(t, l, FromContextOr(ctx, nil))
}

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	var seen *zap.Logger
	h := Middleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContextOr(r.Context(), nil)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issues", nil))

	require.NotNil(t, seen)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("request finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/issues", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), fields["request_id"])
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMiddleware_ServerErrorsLoggedAsError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewNop()
	attached := zap.NewExample()

	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, attached, FromContextOr(WithContext(context.Background(), attached), fallback))
}
