package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/docker/go-units"

	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
)

/*
	SizeValidator rejects request bodies over server.request_limits.max_body_size.
	A declared Content-Length is checked up front; chunked or lying clients are
	caught later by the MaxBytesReader we wrap the body in, the fetch handler
	maps that read error to the same 413.

	Holds no mutable state.
*/

type SizeValidator struct {
	recorder    violationRecorder
	logger      logger.StyledLogger
	maxBodySize int64
}

func NewSizeValidator(limits config.ServerRequestLimits, recorder violationRecorder, log logger.StyledLogger) *SizeValidator {
	return &SizeValidator{
		maxBodySize: limits.MaxBodySize,
		recorder:    recorder,
		logger:      log,
	}
}

func (sv *SizeValidator) Name() string {
	return constants.ViolationSizeLimit
}

func (sv *SizeValidator) Validate(ctx context.Context, req ports.SecurityRequest) (ports.SecurityResult, error) {
	if sv.maxBodySize > 0 && req.BodySize > sv.maxBodySize {
		return ports.SecurityResult{
			Allowed: false,
			Reason: fmt.Sprintf("content-length %s exceeds limit %s",
				units.BytesSize(float64(req.BodySize)), units.BytesSize(float64(sv.maxBodySize))),
		}, nil
	}
	return ports.SecurityResult{Allowed: true}, nil
}

func (sv *SizeValidator) CreateMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := sv.Validate(r.Context(), ports.SecurityRequest{
				Endpoint: r.URL.Path,
				Method:   r.Method,
				BodySize: r.ContentLength,
				Headers:  r.Header,
			})
			if err != nil {
				util.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if !result.Allowed {
				sv.reject(w, r, result.Reason)
				return
			}

			if sv.maxBodySize > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, sv.maxBodySize)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (sv *SizeValidator) reject(w http.ResponseWriter, r *http.Request, reason string) {
	if sv.recorder != nil {
		sv.recorder.RecordViolation(r.Context(), ports.SecurityViolation{
			ClientID:      r.RemoteAddr,
			ViolationType: constants.ViolationSizeLimit,
			Endpoint:      r.URL.Path,
			Size:          r.ContentLength,
			Timestamp:     time.Now(),
		})
	}

	sv.logger.Warn("Request rejected",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	util.WriteJSONError(w, http.StatusRequestEntityTooLarge, domain.ErrPayloadTooLarge.Error())
}
