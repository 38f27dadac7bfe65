package profiler

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/thushan/olla-explorer/internal/logger"
)

// Start serves pprof on its own listener, kept off the main mux so it's
// never exposed by accident. Shutdown the returned server to stop it.
func Start(address string, log logger.StyledLogger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Profiler listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Profiler stopped", "error", err)
		}
	}()

	return server
}
