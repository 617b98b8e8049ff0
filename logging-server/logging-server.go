package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrexodia/united-logs-go/internal/ingest"
)

func main() {
	configPath := flag.String("config", "server.yaml", "Path to the server config")
	memory := flag.Bool("memory", false, "Keep events in memory instead of writing files")
	flag.Parse()

	config, err := ingest.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	logger, err := newLogger(config.Logging.Level)
	if err != nil {
		log.Fatal("Error creating logger:", err)
	}
	defer logger.Sync()

	var store ingest.Store
	if *memory {
		store = ingest.NewMemoryStore()
	} else {
		fileStore, err := ingest.NewFileStore(config.Logging.Dir)
		if err != nil {
			logger.Fatal("error creating log directory", zap.Error(err))
		}
		store = fileStore
	}

	server := ingest.NewServer(store,
		ingest.WithLogger(logger),
		ingest.WithAPIKeys(config.APIKeys...))

	logger.Info("logging server starting",
		zap.String("addr", config.Addr()),
		zap.String("dir", config.Logging.Dir),
		zap.Bool("memory", *memory),
		zap.Int("api_keys", len(config.APIKeys)))

	if err := http.ListenAndServe(config.Addr(), server); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
