// Kestrel - Bathroom safety auditing that deploys in 60 seconds.
// Copyright (c) 2026 opensource.safety
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opensource-safety/kestrel/internal/activity"
	"github.com/opensource-safety/kestrel/internal/advisor"
	"github.com/opensource-safety/kestrel/internal/api"
	"github.com/opensource-safety/kestrel/internal/bus"
	"github.com/opensource-safety/kestrel/internal/cache"
	"github.com/opensource-safety/kestrel/internal/domain"
	"github.com/opensource-safety/kestrel/internal/repository"
	"github.com/opensource-safety/kestrel/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("KESTREL_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting kestrel",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("KESTREL_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Activity Service
	activitySvc := activity.NewService(repo, cacheImpl)
	slog.Info("activity service initialized")

	// Initialize Advisor
	adv, err := advisor.New(100)
	if err != nil {
		slog.Error("failed to initialize advisor", "error", err)
		os.Exit(1)
	}
	defer adv.Close()

	// Builtin advisory rules ship with the binary; tenants add more via API
	if err := adv.LoadRules(advisor.BuiltinRules()); err != nil {
		slog.Error("failed to load builtin advisory rules", "error", err)
		os.Exit(1)
	}
	if err := loadAdvisoryRulesFromDatabase(ctx, repo, adv); err != nil {
		slog.Error("failed to load advisory rules", "error", err)
		os.Exit(1)
	}
	slog.Info("advisor initialized", "rules_count", adv.RulesCount())

	// Initialize async Worker (Pro tier)
	var asyncWorker *worker.Worker
	if cfg.Worker.Enabled || os.Getenv("KESTREL_ASYNC_WORKER") == "true" {
		asyncWorker = worker.NewWorker(busImpl, repo, cacheImpl, adv)

		// Get tenant IDs to process (from environment or default)
		tenantIDs := []string{}
		if envTenants := os.Getenv("KESTREL_TENANTS"); envTenants != "" {
			for _, tenant := range strings.Split(envTenants, ",") {
				if tenant = strings.TrimSpace(tenant); tenant != "" {
					tenantIDs = append(tenantIDs, tenant)
				}
			}
		}

		workerCfg := worker.Config{
			TenantIDs:   tenantIDs,
			WorkerCount: cfg.Worker.Concurrency,
		}

		if err := asyncWorker.Start(workerCfg); err != nil {
			slog.Error("failed to start async worker", "error", err)
		} else {
			slog.Info("async worker started", "tenant_count", len(tenantIDs))
		}
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, adv, activitySvc, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("kestrel is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("kestrel shutdown complete")
}

// GlobalTenantID is used for advisory rules that apply to all tenants.
const GlobalTenantID = "*"

// loadAdvisoryRulesFromDatabase loads persisted advisory rules into the advisor.
func loadAdvisoryRulesFromDatabase(ctx context.Context, repo domain.Repository, adv *advisor.Advisor) error {
	dbRules, err := repo.ListAdvisoryRules(ctx, GlobalTenantID)
	if err != nil {
		slog.Warn("failed to list advisory rules from database", "error", err)
		return nil // Start with builtins only - more can be added via API
	}

	if len(dbRules) > 0 {
		slog.Info("loading advisory rules from database", "count", len(dbRules))
		return adv.LoadRules(dbRules)
	}

	slog.Info("no advisory rules in database - configure via POST /rules API")
	return nil
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║               🪶 KESTREL                  ║")
	fmt.Println("  ║      Bathroom Safety Risk Engine          ║")
	fmt.Println("  ║      Every bathroom, made safer.          ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /score                   - Score an answer map (nothing persisted)")
	fmt.Println("    POST /audits                  - Submit and score an audit")
	fmt.Println("    GET  /audits/{id}             - Get audit by ID")
	fmt.Println("    GET  /audits/{id}/assessment  - Get latest assessment for an audit")
	fmt.Println("    GET  /audits/{id}/report      - Render audit answers as report rows")
	fmt.Println("    GET  /assessments/{id}        - Get assessment by ID")
	fmt.Println("    GET  /sections                - List survey sections")
	fmt.Println("    GET  /rules                   - List advisory rules")
	fmt.Println("    POST /rules                   - Create an advisory rule")
	fmt.Println("    POST /rules/reload            - Hot-reload rules from database")
	fmt.Println("    GET  /locations/{id}/activity - Audit activity for a location")
	fmt.Println("    GET  /health                  - Health check")
	fmt.Println()
}
