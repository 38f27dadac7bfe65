package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/pkg/format"
)

const (
	HeaderRequestID  = "X-Request-ID"
	HeaderExplorerID = "X-Explorer-Request-ID"
)

type loggerKey struct{}

// responseWriter captures status and size for the access log
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

func (rw *responseWriter) WriteHeader(s int) {
	rw.status = s
	rw.ResponseWriter.WriteHeader(s)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// GetLogger returns the request scoped logger, or fallback when the
// middleware didn't run (tests mostly).
func GetLogger(ctx context.Context, fallback logger.StyledLogger) logger.StyledLogger {
	if l, ok := ctx.Value(loggerKey{}).(logger.StyledLogger); ok {
		return l
	}
	return fallback
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constants.ContextRequestIdKey).(string); ok {
		return requestID
	}
	return ""
}

// EnhancedLoggingMiddleware tags every request with an ID (the caller's
// X-Request-ID when sent), hands handlers a logger carrying it and logs the
// start and end of the request. Routine requests log at debug unless
// verbose is set so the console isn't flooded by the UI polling.
func EnhancedLoggingMiddleware(styledLogger logger.StyledLogger, verbose bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = util.GenerateRequestID()
			}

			requestSize := max(r.ContentLength, 0)
			reqLogger := styledLogger.WithRequestID(requestID)

			ctx := context.WithValue(r.Context(), constants.ContextRequestIdKey, requestID)
			ctx = context.WithValue(ctx, constants.ContextRequestTimeKey, start)
			ctx = context.WithValue(ctx, loggerKey{}, reqLogger)

			w.Header().Set(HeaderExplorerID, requestID)
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			logAt(reqLogger, verbose, "Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_bytes", requestSize)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			logAt(reqLogger, verbose || wrapped.status >= http.StatusInternalServerError, "Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", duration.Milliseconds(),
				"duration_formatted", format.Duration(duration),
				"size_flow", fmt.Sprintf("%s -> %s",
					format.Bytes(util.SafeUint64(requestSize)), format.Bytes(util.SafeUint64(wrapped.size))))
		})
	}
}

func logAt(l logger.StyledLogger, info bool, msg string, args ...any) {
	if info {
		l.Info(msg, args...)
		return
	}
	l.Debug(msg, args...)
}

// AccessLoggingMiddleware writes one structured line per request to the log
// file only, never the terminal.
func AccessLoggingMiddleware(styledLogger logger.StyledLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = wrapped.Header().Get(HeaderExplorerID)
			}

			styledLogger.GetUnderlying().InfoContext(logger.WithFileOnly(r.Context()), "Access log",
				"timestamp", start.Format(time.RFC3339),
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", wrapped.status,
				"request_bytes", max(r.ContentLength, 0),
				"response_bytes", wrapped.size,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
				"referer", r.Referer(),
				"content_type", r.Header.Get(constants.ContentTypeHeader))
		})
	}
}
