package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-chi/cors"

	"github.com/thushan/olla-explorer/internal/app/middleware"
	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/version"
)

const corsMaxAge = 300

// Handler assembles the routes and middleware. Logging sits outermost so it
// sees the 500 the recovery middleware writes for a panicking handler.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()

	a.registerRoutes()

	var security func(http.Handler) http.Handler
	if a.securityAdapters != nil {
		security = a.securityAdapters.CreateChainMiddleware()
	}
	a.routeRegistry.WireUp(mux, security)

	var handler http.Handler = mux
	handler = cors.Handler(a.corsOptions())(handler)
	handler = middleware.RecoveryMiddleware(a.logger)(handler)
	if a.Config.Logging.FileOutput {
		handler = middleware.AccessLoggingMiddleware(a.logger)(handler)
	}
	handler = middleware.EnhancedLoggingMiddleware(a.logger, a.Config.Server.RequestLogging)(handler)

	return handler
}

func (a *Application) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: a.Config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{constants.ContentTypeHeader, constants.AcceptHeader, middleware.HeaderRequestID},
		ExposedHeaders: []string{
			middleware.HeaderExplorerID,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: corsMaxAge,
	}
}

// Start binds the listener synchronously so a taken port fails here rather
// than in a goroutine, serving then carries on in the background.
func (a *Application) Start(ctx context.Context) error {
	a.logStartup()

	a.server.Handler = a.Handler()
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}

	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", "error", err)
			a.errCh <- err
		}
	}()

	a.logger.Info("Started Olla Explorer", "bind", listener.Addr().String(), "version", version.Version)
	return nil
}

func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.securityAdapters != nil {
		a.securityAdapters.Stop()
	}

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	return nil
}

func (a *Application) logStartup() {
	serverCfg := a.Config.Server
	fetchCfg := a.Config.Fetch

	a.logger.Info("Starting Olla Explorer...",
		"host", serverCfg.Host,
		"port", serverCfg.Port,
		"read_timeout", serverCfg.ReadTimeout,
		"write_timeout", serverCfg.WriteTimeout,
		"containerised", a.containerised)

	a.logger.Info("Upstream fetch settings",
		"request_timeout", fetchCfg.RequestTimeout,
		"server_workers", workersLabel(fetchCfg.ServerWorkers),
		"model_workers", workersLabel(fetchCfg.ModelWorkers),
		"retry_attempts", fetchCfg.RetryAttempts,
		"max_response_size", units.HumanSize(float64(fetchCfg.MaxResponseSize)))

	if serverCfg.RequestLimits.MaxBodySize > 0 {
		a.logger.Info("Request size limits enabled",
			"max_body_size", units.HumanSize(float64(serverCfg.RequestLimits.MaxBodySize)))
	}

	limits := serverCfg.RateLimits
	if limits.GlobalRequestsPerMinute > 0 || limits.PerIPRequestsPerMinute > 0 {
		a.logger.Info("Rate limiting enabled",
			"global_limit", limits.GlobalRequestsPerMinute,
			"per_ip_limit", limits.PerIPRequestsPerMinute,
			"burst_size", limits.BurstSize,
			"trust_proxy", limits.TrustProxyHeaders)
	}

	if limits.TrustProxyHeaders && len(limits.TrustedProxyCIDRs) > 0 {
		a.logger.Info("Configured Trusted Proxy CIDRS", "cidrs", strings.Join(limits.TrustedProxyCIDRs, ", "))
	}

	if len(serverCfg.CORSOrigins) == 1 && serverCfg.CORSOrigins[0] == "*" {
		a.logger.Debug("CORS allows any origin")
	}
}

func workersLabel(n int) string {
	if n <= 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", n)
}
