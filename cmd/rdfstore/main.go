package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/alexedwards/flow"
	"github.com/tailored-agentic-units/journal/store/backend"
	"github.com/tailored-agentic-units/journal/store/rpc"
)

func main() {
	var (
		flStorage = flag.String("storage", backend.Memory, "name of storage backend: memory, diskv, redis")
		flPath    = flag.String("path", "db", "diskv base directory")
		flAddr    = flag.String("addr", "localhost:6379", "redis address")
		flPrefix  = flag.String("prefix", "journal", "redis key prefix")
		flSource  = flag.String("source", "rdfstore", "store name reported in result provenance")
		flListen  = flag.String("listen", ":9010", "HTTP listen address")
		flDebug   = flag.Bool("debug", false, "log debug messages")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *flDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *flStorage == backend.RPC {
		log.Fatal("rdfstore cannot serve the rpc backend")
	}

	cfg := backend.DefaultConfig()
	cfg.Merge(&backend.Config{
		Backend: *flStorage,
		Source:  *flSource,
		Path:    *flPath,
		Addr:    *flAddr,
		Prefix:  *flPrefix,
	})

	storage, closeFn, err := backend.Open(&cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeFn()

	path, handler := rpc.NewHandler(storage)

	mux := flow.New()
	mux.Handle(path+"...", handler, http.MethodPost)

	logger.Info("starting server", "listen", *flListen, "storage", cfg.Backend, "service", rpc.StorageServiceName)
	if err := http.ListenAndServe(*flListen, mux); err != nil {
		logger.Error("server shutdown", "err", err)
		os.Exit(1)
	}
}
