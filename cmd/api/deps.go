package main

import (
	"context"
	"log"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/notification"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/infrastructure/crypto"
	"lifecfo/internal/infrastructure/firebase"
	"lifecfo/internal/infrastructure/plaidlink"
	"lifecfo/internal/infrastructure/postgres"
	"lifecfo/internal/infrastructure/postgres/listener"
	httphandlers "lifecfo/internal/interfaces/http"
	"lifecfo/internal/shared/config"
	"lifecfo/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	DashboardHandler    *httphandlers.DashboardHandler
	RecordsHandler      *httphandlers.RecordsHandler
	DebtHandler         *httphandlers.DebtHandler
	ScenarioHandler     *httphandlers.ScenarioHandler
	LinkHandler         *httphandlers.LinkHandler
	ExitPlanHandler     *httphandlers.ExitPlanHandler
	ExportHandler       *httphandlers.ExportHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Services and state shared with the scheduler
	SyncService  *bankfeed.SyncService
	AlertService *notification.Service
	Store        *records.Store
	Balances     *postgres.BalanceRepository

	// Alert text catalog, nil when the file is absent
	AlertMessages *messages.Messages

	// Background categorizer
	Listener *listener.TransactionListener
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	snapshotRepo := postgres.NewSnapshotRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	connectionRepo := postgres.NewConnectionRepository(db)
	balanceRepo := postgres.NewBalanceRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Seed the in-memory record store from the persisted snapshot.
	// A missing or corrupt snapshot falls back to the documented defaults.
	snap, err := snapshotRepo.Load(ctx)
	if err != nil {
		log.Printf("Snapshot load degraded, using defaults: %v", err)
		snap = records.DefaultSnapshot()
	}
	store := records.NewStore(snap)

	// Initialize aggregation provider and sync service
	provider := plaidlink.NewClient(cfg.Aggregation.BaseURL, cfg.Aggregation.ClientID, cfg.Aggregation.Secret)
	syncService := bankfeed.NewSyncService(provider, connectionRepo, balanceRepo, transactionRepo, encryptor)

	// Initialize FCM messenger when credentials are configured
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fcm
			log.Println("Firebase messaging initialized")
		}
	} else {
		log.Println("Firebase messaging disabled (no credentials file)")
	}
	alertService := notification.NewService(notificationRepo, messenger)

	// Load the alert text catalog; missing texts fall back to built-ins
	alertMessages, err := messages.Load(cfg.Scheduler.MessagesPath)
	if err != nil {
		log.Printf("Warning: Alert messages unavailable: %v", err)
		alertMessages = nil
	}

	// Background debt-payment categorizer driven by LISTEN/NOTIFY
	txListener := listener.NewTransactionListener(cfg.Database.ConnectionString(), snapshotRepo, db.DB)

	return &Dependencies{
		DB:                  db,
		DashboardHandler:    httphandlers.NewDashboardHandler(store, balanceRepo, settingsRepo),
		RecordsHandler:      httphandlers.NewRecordsHandler(store, snapshotRepo),
		DebtHandler:         httphandlers.NewDebtHandler(store),
		ScenarioHandler:     httphandlers.NewScenarioHandler(store, balanceRepo),
		LinkHandler:         httphandlers.NewLinkHandler(syncService),
		ExitPlanHandler:     httphandlers.NewExitPlanHandler(store, balanceRepo, settingsRepo, settingsRepo),
		ExportHandler:       httphandlers.NewExportHandler(store, settingsRepo, syncService),
		NotificationHandler: httphandlers.NewNotificationHandler(alertService),
		SyncService:         syncService,
		AlertService:        alertService,
		Store:               store,
		Balances:            balanceRepo,
		AlertMessages:       alertMessages,
		Listener:            txListener,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Listener != nil {
		d.Listener.Stop()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
