package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifecfo/internal/interfaces/scheduler"
	"lifecfo/internal/shared/config"
	"lifecfo/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}()
		log.Println("Telemetry initialized")
	}

	// Initialize dependencies
	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Start the background transaction categorizer
	deps.Listener.Start(ctx)

	// Initialize scheduler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Println("Initializing scheduler...")
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   scheduler.SyncJobProvider(deps.SyncService, deps.AlertService, deps.AlertMessages, deps.Store, deps.Balances),
		})
		if err != nil {
			return err
		}

		sched.Start()
		log.Printf("Scheduler started with times %v, next run at %s",
			cfg.Scheduler.ScheduleTimes, sched.NextRun().Format(time.RFC3339))
	} else {
		log.Println("Scheduler is disabled")
	}

	// Create router and start servers
	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, sched, 30*time.Second)
	return nil
}
