// chatd — tool-call orchestration service.
//
// Accepts chat messages over HTTP, lets the configured language model decide
// between answering directly and requesting a backend data tool, dispatches
// detected tool calls, and narrates results back through a second model pass.
//
// Examples:
//
//	export GROQ_API_KEY=...
//	go run ./cmd/chatd
//
//	go run ./cmd/chatd -provider dummy -addr :8001
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	orchestrator "github.com/toolbridge/chatd"
	"github.com/toolbridge/chatd/pkg/backend"
	"github.com/toolbridge/chatd/pkg/config"
	"github.com/toolbridge/chatd/pkg/httpapi"
	"github.com/toolbridge/chatd/pkg/models"
)

var (
	flagAddr     = flag.String("addr", "", "Listen address (overrides CHATD_ADDR)")
	flagProvider = flag.String("provider", "", "Completion provider: openai|anthropic|ollama|dummy (overrides CHATD_PROVIDER)")
	flagModel    = flag.String("model", "", "Model ID for the selected provider (overrides CHATD_MODEL)")
	flagBackend  = flag.String("backend", "", "Tool backend base URL (overrides TOOL_BACKEND_URL)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}
	if *flagProvider != "" {
		cfg.Provider = *flagProvider
	}
	if *flagModel != "" {
		cfg.Model = *flagModel
	}
	if *flagBackend != "" {
		cfg.ToolBackendURL = *flagBackend
	}

	provider, err := models.NewProvider(cfg.Provider, models.ProviderOptions{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		fail(fmt.Errorf("configure provider: %w", err))
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Provider:          provider,
		Backend:           backend.NewClient(cfg.ToolBackendURL, cfg.ToolBackendTimeout),
		Model:             cfg.Model,
		ToolTemperature:   float32(cfg.ToolTemperature),
		AnswerTemperature: float32(cfg.AnswerTemperature),
		MaxTokens:         cfg.MaxTokens,
	})
	if err != nil {
		fail(fmt.Errorf("build orchestrator: %w", err))
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.NewServer(orch, cfg.ToolBackendURL).Handler(),
	}

	go func() {
		log.Printf("[chatd] listening on %s (provider=%s model=%s backend=%s)",
			cfg.Addr, cfg.Provider, cfg.Model, cfg.ToolBackendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[chatd] shutdown: %v", err)
	}
	log.Printf("[chatd] stopped")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
