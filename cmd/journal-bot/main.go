package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/flow"
	"github.com/tailored-agentic-units/journal/bot"
	"github.com/tailored-agentic-units/journal/http/api"
	"github.com/tailored-agentic-units/journal/observability"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to bot config file, JSON or YAML (optional)")
		listen     = flag.String("listen", ":8080", "HTTP listen address")
		identity   = flag.String("identity", "", "Representation URI for creator attribution (overrides config)")
		backendFl  = flag.String("storage", "", "Storage backend: memory, diskv, redis, rpc (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := bot.DefaultConfig()
	if *configFile != "" {
		loaded, err := bot.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *identity != "" {
		cfg.Identity = *identity
	}
	if *backendFl != "" {
		cfg.Store.Backend = *backendFl
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	runtime, err := bot.New(&cfg)
	if err != nil {
		log.Fatalf("Failed to create bot runtime: %v", err)
	}
	defer runtime.Close()

	mux := flow.New()
	api.RegisterV1(mux, runtime, logger.With("handler", "api"))

	server := &http.Server{Addr: *listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()

	logger.Info("starting server", "listen", *listen, "storage", cfg.Store.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown", "err", err)
		os.Exit(1)
	}
}
