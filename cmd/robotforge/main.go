// Command robotforge runs the HTTP/SSE API that turns natural-language UI
// test descriptions into executable Robot Framework scripts, validates
// them, and runs them against a disposable Docker container.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/robotforge/robotforge/pkg/agent/llm"
	"github.com/robotforge/robotforge/pkg/api"
	"github.com/robotforge/robotforge/pkg/config"
	rfcontext "github.com/robotforge/robotforge/pkg/context"
	"github.com/robotforge/robotforge/pkg/exec"
	"github.com/robotforge/robotforge/pkg/keywordstore"
	"github.com/robotforge/robotforge/pkg/orchestrator"
	"github.com/robotforge/robotforge/pkg/patternjournal"
	"github.com/robotforge/robotforge/pkg/probe"
	"github.com/robotforge/robotforge/pkg/storage"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("no .env file at %s, continuing with existing environment: %v", envPath, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := storage.Open(ctx, cfg.StorageDSN)
	if err != nil {
		log.Fatalf("failed to connect to storage: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing storage client", "error", err)
		}
	}()
	slog.Info("connected to storage")

	keywordStore, err := keywordstore.New(cfg.KeywordStorePath)
	if err != nil {
		log.Fatalf("failed to open keyword store: %v", err)
	}
	if err := keywordstore.SeedIfEmpty(ctx, keywordStore); err != nil {
		log.Fatalf("failed to seed keyword store: %v", err)
	}

	classifier, err := rfcontext.NewClassifier(ctx, keywordstore.Embed)
	if err != nil {
		log.Fatalf("failed to build context classifier: %v", err)
	}

	patternStore, err := keywordstore.NewPatternStore(keywordStore.DB())
	if err != nil {
		log.Fatalf("failed to open pattern embedding collection: %v", err)
	}

	journal := patternjournal.New(dbClient.DB(), patternStore)
	builder := rfcontext.NewBuilder(cfg, journal, keywordStore, classifier)

	llmClients := orchestrator.LLMClients{
		Online: llm.NewAnthropicClient(cfg.AnthropicAPIKey),
		Local:  llm.NewLocalClient(cfg.LocalModelURL),
	}

	probeClient := probe.New(cfg.ProbeServiceURL)

	provisioner, err := exec.NewImageProvisioner(cfg)
	if err != nil {
		log.Fatalf("failed to initialize image provisioner: %v", err)
	}
	defer func() {
		if err := provisioner.Close(); err != nil {
			slog.Error("error closing image provisioner", "error", err)
		}
	}()

	runner, err := exec.NewRunner(cfg)
	if err != nil {
		log.Fatalf("failed to initialize container runner: %v", err)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			slog.Error("error closing container runner", "error", err)
		}
	}()

	orch := orchestrator.New(cfg, llmClients, builder, probeClient, runner, provisioner, builder)

	server := api.NewServer(orch, provisioner)

	addr := ":" + getEnv("HTTP_PORT", "8080")
	slog.Info("starting robotforge", "addr", addr, "model_provider", cfg.ModelProvider, "robot_library", cfg.RobotLibrary)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("http server failed: %v", err)
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("error during shutdown", "error", err)
		}
	}
}
