package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/dmforge/encounter-api/internal/agent"
	"github.com/dmforge/encounter-api/internal/config"
	v1alpha1 "github.com/dmforge/encounter-api/internal/handlers/api/v1alpha1"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
	"github.com/dmforge/encounter-api/internal/pkg/idgen"
	redisclient "github.com/dmforge/encounter-api/internal/redis"
	telemetryrepo "github.com/dmforge/encounter-api/internal/repositories/telemetry"
	"github.com/dmforge/encounter-api/internal/rules"
	"github.com/dmforge/encounter-api/internal/ruleset"
	"github.com/dmforge/encounter-api/internal/telemetry"
)

var httpPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  `Start the encounter API server with all configured components.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", 0, "HTTP server port (overrides HTTP_PORT)")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if httpPort > 0 {
		cfg.HTTPPort = httpPort
	}

	loader := ruleset.NewEmbedded()

	telemetryClient, err := buildTelemetryClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to build telemetry client: %w", err)
	}

	generator, err := rules.NewGenerator(&rules.GeneratorConfig{
		Loader:      loader,
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewPrefixed("enc"),
		Telemetry:   telemetryClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	var peer encounterorc.PeerValidator
	if cfg.PeerValidation {
		bus := agent.NewBus(0)
		// The interpreter carries its own loader so its verdicts never
		// depend on the orchestrator's memory.
		interpreter, err := agent.NewInterpreter(&agent.InterpreterConfig{
			Bus:    bus,
			Loader: ruleset.NewEmbedded(),
		})
		if err != nil {
			return fmt.Errorf("failed to create rules interpreter: %w", err)
		}
		go func() { _ = interpreter.Run(ctx) }()
		peer = bus
	}

	service, err := encounterorc.NewOrchestrator(&encounterorc.Config{
		Loader:      loader,
		Generator:   generator,
		Telemetry:   telemetryClient,
		Peer:        peer,
		PeerTimeout: cfg.PeerTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	sessions, err := agent.NewManager(&agent.ManagerConfig{
		Orchestrator: service,
		Cooldown:     cfg.TriggerCooldown,
	})
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		EncounterService: service,
		Sessions:         sessions,
		Telemetry:        telemetryClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting",
			"port", cfg.HTTPPort,
			"peer_validation", cfg.PeerValidation)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildTelemetryClient picks the telemetry backend: an external service
// when a base URL is configured, otherwise a local history store (Redis
// when an address is configured, process memory otherwise).
func buildTelemetryClient(cfg *config.Config) (telemetry.Client, error) {
	if cfg.TelemetryBaseURL != "" {
		return telemetry.NewHTTPClient(&telemetry.HTTPConfig{
			BaseURL:  cfg.TelemetryBaseURL,
			CacheTTL: cfg.TelemetryCacheTTL,
		})
	}

	var repo telemetryrepo.Repository
	if cfg.RedisAddr != "" {
		client, err := redisclient.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, err
		}
		repo, err = telemetryrepo.NewRedisRepository(&telemetryrepo.Config{
			Client:        client,
			Clock:         clock.New(),
			HistoryWindow: cfg.TelemetryHistoryWindow,
		})
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		repo, err = telemetryrepo.NewInMemoryRepository(&telemetryrepo.InMemoryConfig{
			HistoryWindow: cfg.TelemetryHistoryWindow,
		})
		if err != nil {
			return nil, err
		}
	}

	return telemetry.NewStoreClient(&telemetry.StoreConfig{Repository: repo})
}
