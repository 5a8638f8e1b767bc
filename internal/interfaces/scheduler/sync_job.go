package scheduler

import (
	"context"
	"fmt"
	"log"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/notification"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/shared/messages"
)

// ConnectionSyncJob refreshes a single linked institution. A refresh that
// degrades to last-known state is not an error, but it does raise a sync
// alert when alerting is configured.
type ConnectionSyncJob struct {
	conn          *bankfeed.Connection
	syncService   *bankfeed.SyncService
	alertService  *notification.Service
	alertMessages *messages.Messages
}

// NewConnectionSyncJob creates a refresh job for one connection.
func NewConnectionSyncJob(conn *bankfeed.Connection, syncService *bankfeed.SyncService, alertService *notification.Service, alertMessages *messages.Messages) *ConnectionSyncJob {
	return &ConnectionSyncJob{
		conn:          conn,
		syncService:   syncService,
		alertService:  alertService,
		alertMessages: alertMessages,
	}
}

// Execute runs the refresh for this connection.
func (j *ConnectionSyncJob) Execute(ctx context.Context) error {
	log.Printf("Starting sync for %s", j.conn.InstitutionName)

	result, err := j.syncService.RefreshConnection(ctx, j.conn)
	if err != nil {
		log.Printf("Sync failed for %s: %v", j.conn.InstitutionName, err)
		j.sendFailureAlert(ctx)
		return fmt.Errorf("sync failed: %w", err)
	}

	if result.FailedConnections > 0 {
		log.Printf("Sync for %s degraded to last-known state: Balances=%d, Transactions=%d",
			j.conn.InstitutionName, result.BalancesUpdated, result.TransactionsStored)
		j.sendFailureAlert(ctx)
		return nil
	}

	log.Printf("Sync for %s completed successfully: Balances=%d, Transactions=%d",
		j.conn.InstitutionName, result.BalancesUpdated, result.TransactionsStored)

	return nil
}

func (j *ConnectionSyncJob) sendFailureAlert(ctx context.Context) {
	if j.alertService == nil {
		return
	}

	if j.alertMessages != nil {
		text := j.alertMessages.SyncFailed
		err := j.alertService.SendAlert(ctx, text.Title,
			fmt.Sprintf(text.Body, j.conn.InstitutionName),
			notification.CategorySync,
			map[string]string{"institution": j.conn.InstitutionName})
		if err != nil {
			log.Printf("Failed to send sync alert for %s: %v", j.conn.InstitutionName, err)
		}
		return
	}

	if err := j.alertService.SyncFailureAlert(ctx, j.conn.InstitutionName); err != nil {
		log.Printf("Failed to send sync alert for %s: %v", j.conn.InstitutionName, err)
	}
}

// Description returns a human-readable description of the job.
func (j *ConnectionSyncJob) Description() string {
	return fmt.Sprintf("Bank sync for %s", j.conn.InstitutionName)
}

// SyncJobProvider builds one refresh job per stored connection, followed by
// a reserve check over the refreshed balances when a record store is given.
// Intended to be plugged into the scheduler's JobProvider hook.
func SyncJobProvider(syncService *bankfeed.SyncService, alertService *notification.Service, alertMessages *messages.Messages, store *records.Store, balances BalanceReader) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		conns, err := syncService.Connections(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list connections: %w", err)
		}

		jobs := make([]Job, 0, len(conns)+1)
		for _, conn := range conns {
			jobs = append(jobs, NewConnectionSyncJob(conn, syncService, alertService, alertMessages))
		}
		if store != nil && balances != nil {
			jobs = append(jobs, NewReserveCheckJob(store, balances, alertService, alertMessages))
		}
		return jobs, nil
	}
}
