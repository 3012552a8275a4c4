package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID back to the caller.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// New builds the application logger for the given environment.
// "production" and "staging" log JSON at info level, anything else uses
// zap's development config.
func New(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	switch env {
	case "production", "staging":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment(zap.AddStacktrace(zap.ErrorLevel))
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("env", env))
}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContextOr returns the logger attached to ctx, or fallback if none is.
// A nil fallback means the global zap logger.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if lg, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && lg != nil {
		return lg
	}
	if fallback == nil {
		return zap.L()
	}
	return fallback
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware attaches a request-scoped logger carrying a fresh request ID and
// logs every finished request.
func Middleware(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			reqLogger := base.With(
				zap.String("request_id", reqID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(WithContext(r.Context(), reqLogger)))

			fields := []zap.Field{
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
			}
			if rec.status >= http.StatusInternalServerError {
				reqLogger.Error("request finished", fields...)
				return
			}
			reqLogger.Info("request finished", fields...)
		})
	}
}
