package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thushan/olla-explorer/internal/app"
	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/version"
	"github.com/thushan/olla-explorer/pkg/format"
	"github.com/thushan/olla-explorer/pkg/nerdstats"
	"github.com/thushan/olla-explorer/pkg/profiler"
)

type options struct {
	configFile  string
	host        string
	pprofAddr   string
	port        int
	debug       bool
	showVersion bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           version.Name,
		Short:         version.Description,
		Long:          "Olla Explorer fans out to any number of Ollama servers and shows every model they host in one place.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to a config.yaml (defaults to ./config.yaml or $"+config.EnvConfigFile+")")
	flags.StringVar(&opts.host, "host", "", "address to bind, overrides the config")
	flags.IntVarP(&opts.port, "port", "p", 0, "port to listen on, overrides the config")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "debug logging and per-request logs")
	flags.StringVar(&opts.pprofAddr, "pprof", "", "serve pprof on this address, e.g. localhost:6060")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "print version information and exit")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	startTime := time.Now()
	vlog := log.New(cmd.OutOrStdout(), "", 0)

	if opts.showVersion {
		version.PrintVersionInfo(true, vlog)
		return nil
	}
	version.PrintVersionInfo(false, vlog)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	applyFlagOverrides(cmd, cfg, opts)

	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(buildLoggerConfig(cfg))
	if err != nil {
		logger.Fatalf("Failed to initialise logger: %v", err)
	}
	defer cleanup()

	slog.SetDefault(logInstance)

	styledLogger.Info("Initialising", "version", version.Version, "pid", os.Getpid())
	if cfg.Filename != "" {
		styledLogger.Info("Loaded configuration", "file", cfg.Filename)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.pprofAddr != "" {
		pprofServer := profiler.Start(opts.pprofAddr, styledLogger)
		defer func() {
			_ = pprofServer.Close()
		}()
	}

	application, err := app.New(startTime, cfg, styledLogger)
	if err != nil {
		logger.FatalWithLogger(styledLogger, "Failed to create application", "error", err)
	}

	if err := application.Start(ctx); err != nil {
		logger.FatalWithLogger(styledLogger, "Failed to start application", "error", err)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		styledLogger.Info("Shutdown signal received")
	case serveErr = <-application.Errors():
		styledLogger.Error("Server stopped unexpectedly", "error", serveErr)
	}

	if err := application.Stop(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		styledLogger.Error("Error during shutdown", "error", err)
	}

	reportProcessStats(styledLogger, startTime)

	styledLogger.Info("Olla Explorer has shutdown")
	return serveErr
}

// flags only win when they were actually passed, otherwise config and env stand
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("debug") && opts.debug {
		cfg.Debug = true
		cfg.Logging.Level = logger.LogLevelDebug
		cfg.Server.RequestLogging = true
	}
}

func buildLoggerConfig(cfg *config.Config) *logger.Config {
	return &logger.Config{
		Level:      cfg.Logging.Level,
		FileOutput: cfg.Logging.FileOutput,
		LogDir:     cfg.Logging.LogDir,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Theme:      cfg.Logging.Theme,
	}
}

func reportProcessStats(log logger.StyledLogger, startTime time.Time) {
	runtime.GC()

	stats := nerdstats.Snapshot(startTime)

	log.Info("Process Memory Stats",
		"heap_alloc", format.Bytes(stats.HeapAlloc),
		"heap_sys", format.Bytes(stats.HeapSys),
		"heap_released", format.Bytes(stats.HeapReleased),
		"total_alloc", format.Bytes(stats.TotalAlloc),
		"memory_pressure", stats.MemoryPressure(),
	)

	if stats.NumGC > 0 {
		log.Info("Garbage Collection Stats",
			"num_gc_cycles", stats.NumGC,
			"last_gc", stats.LastGC.Format(time.RFC3339),
			"total_gc_time", format.Duration(stats.TotalGCTime),
			"avg_gc_pause", stats.AverageGCPause(),
		)
	}

	log.Info("Runtime Stats",
		"uptime", format.Duration(stats.Uptime),
		"num_goroutines", stats.NumGoroutines,
		"goroutine_health", stats.GoroutineHealth(),
		"go_version", stats.GoVersion,
	)

	if buildInfo := stats.BuildSummary(); len(buildInfo) > 0 {
		var buildArgs []any
		for key, value := range buildInfo {
			buildArgs = append(buildArgs, key, value)
		}
		log.Info("Build Info", buildArgs...)
	}
}
