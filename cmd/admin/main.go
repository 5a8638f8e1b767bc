package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/export"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/infrastructure/crypto"
	"lifecfo/internal/infrastructure/plaidlink"
	"lifecfo/internal/infrastructure/postgres"
	"lifecfo/internal/shared/config"
)

const usage = `Life CFO Admin CLI - Management commands for the Life CFO API

Usage:
  admin <command> [options]

Commands:
  sync     Refresh balances and transactions for linked institutions
  seed     Write the default record snapshot to the database
  export   Print the full export document to stdout

Examples:
  # Refresh every linked institution
  admin sync

  # Refresh a single connection
  admin sync --connection-id=3f1c...

  # Seed the database with the default records (skips if one exists)
  admin seed

  # Overwrite the stored snapshot with the defaults
  admin seed --force

  # Dump the redacted export document
  admin export > backup.json
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "sync":
		runSync(os.Args[2:])
	case "seed":
		runSeed(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

// newSyncService wires the sync service from configuration the same way
// the API server does.
func newSyncService(cfg *config.Config, db *postgres.DB) (*bankfeed.SyncService, error) {
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	provider := plaidlink.NewClient(cfg.Aggregation.BaseURL, cfg.Aggregation.ClientID, cfg.Aggregation.Secret)
	return bankfeed.NewSyncService(
		provider,
		postgres.NewConnectionRepository(db),
		postgres.NewBalanceRepository(db),
		postgres.NewTransactionRepository(db),
		encryptor,
	), nil
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	connectionID := fs.String("connection-id", "", "Connection ID to refresh (default: all)")
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin sync [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	syncService, err := newSyncService(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build sync service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()

	var result bankfeed.SyncResult
	if *connectionID != "" {
		conns, err := syncService.Connections(ctx)
		if err != nil {
			log.Fatalf("Failed to list connections: %v", err)
		}
		var target *bankfeed.Connection
		for _, c := range conns {
			if c.ID == *connectionID {
				target = c
				break
			}
		}
		if target == nil {
			log.Fatalf("Connection %s not found", *connectionID)
		}
		result, err = syncService.RefreshConnection(ctx, target)
		if err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
	} else {
		result, err = syncService.RefreshAll(ctx)
		if err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
	}

	fmt.Printf("\n=== Sync result ===\n")
	fmt.Printf("  Connections refreshed: %d\n", result.RefreshedConnections)
	fmt.Printf("  Connections failed:    %d\n", result.FailedConnections)
	fmt.Printf("  Balances updated:      %d\n", result.BalancesUpdated)
	fmt.Printf("  Transactions stored:   %d\n", result.TransactionsStored)

	log.Printf("Sync completed in %v", time.Since(startTime))
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	force := fs.Bool("force", false, "Overwrite an existing snapshot")

	fs.Usage = func() {
		fmt.Println("Usage: admin seed [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	repo := postgres.NewSnapshotRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !*force {
		existing, err := repo.Load(ctx)
		if err == nil && len(existing.IncomeStreams)+len(existing.Expenses)+len(existing.Investments)+len(existing.Debts) > 0 {
			log.Println("A snapshot already exists, use --force to overwrite")
			return
		}
	}

	if err := repo.Save(ctx, records.DefaultSnapshot()); err != nil {
		log.Fatalf("Failed to seed snapshot: %v", err)
	}
	log.Println("Default snapshot written")
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println("Usage: admin export")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := postgres.NewSnapshotRepository(db).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	settings, err := postgres.NewSettingsRepository(db).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	conns, err := postgres.NewConnectionRepository(db).List(ctx)
	if err != nil {
		log.Fatalf("Failed to list connections: %v", err)
	}

	doc := export.Build(snap, settings, conns, time.Now())
	encoded, err := export.Encode(doc)
	if err != nil {
		log.Fatalf("Failed to encode export: %v", err)
	}

	fmt.Println(string(encoded))
}
