package listener

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"lifecfo/internal/domain/records"
)

const (
	channelName       = "transaction_ingested"
	reconnectInterval = 5 * time.Second
)

// TransactionNotification represents the payload from PostgreSQL NOTIFY,
// emitted by a trigger on the transactions table.
type TransactionNotification struct {
	TransactionID string `json:"transaction_id"`
	Name          string `json:"name"`
}

// SnapshotLoader provides the current debt list for matching
type SnapshotLoader interface {
	Load(ctx context.Context) (records.Snapshot, error)
}

// TransactionListener watches for newly ingested transactions and tags
// the ones that look like payments on a tracked debt, so the feed lines
// up with the budget's debt categories without manual edits.
type TransactionListener struct {
	connStr    string
	snapshots  SnapshotLoader
	db         *sql.DB
	shutdownCh chan struct{}
	done       chan struct{}
}

// NewTransactionListener creates a listener for transaction ingestion notifications
func NewTransactionListener(connStr string, snapshots SnapshotLoader, db *sql.DB) *TransactionListener {
	return &TransactionListener{
		connStr:    connStr,
		snapshots:  snapshots,
		db:         db,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening for notifications in a background goroutine
func (l *TransactionListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Println("Transaction notification listener started")
}

// Stop gracefully shuts down the listener
func (l *TransactionListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	log.Println("Transaction notification listener stopped")
}

func (l *TransactionListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		// Wait before reconnecting
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Println("Reconnecting to PostgreSQL for notifications...")
		}
	}
}

func (l *TransactionListener) connectAndListen(ctx context.Context) {
	// Create a dedicated listener connection
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Listener error: %v", err)
		}
		switch ev {
		case pq.ListenerEventConnected:
			log.Println("Connected to PostgreSQL notification channel")
		case pq.ListenerEventDisconnected:
			log.Println("Disconnected from PostgreSQL notification channel")
		case pq.ListenerEventReconnected:
			log.Println("Reconnected to PostgreSQL notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Printf("Connection attempt failed: %v", err)
		}
	})

	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		log.Printf("Failed to listen on channel %s: %v", channelName, err)
		return
	}

	log.Printf("Listening on channel: %s", channelName)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case notification := <-listener.Notify:
			if notification == nil {
				// Connection lost, break to reconnect
				return
			}
			l.handleNotification(notification)
		case <-time.After(90 * time.Second):
			// Ping to keep connection alive
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("Listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *TransactionListener) handleNotification(notification *pq.Notification) {
	log.Printf("Received notification on channel %s", notification.Channel)

	var payload TransactionNotification
	if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
		log.Printf("Failed to parse notification payload: %v", err)
		return
	}

	// Use background context since parent ctx may be cancelled during shutdown
	go l.categorize(context.Background(), payload)
}

func (l *TransactionListener) categorize(ctx context.Context, payload TransactionNotification) {
	snap, err := l.snapshots.Load(ctx)
	if err != nil {
		log.Printf("Failed to load snapshot for categorization: %v", err)
		return
	}

	category := matchDebtCategory(payload.Name, snap.Debts)
	if category == "" {
		return
	}

	_, err = l.db.ExecContext(ctx,
		`UPDATE transactions SET category = $1 WHERE id = $2`,
		category, payload.TransactionID,
	)
	if err != nil {
		log.Printf("Failed to categorize transaction %s: %v", payload.TransactionID, err)
		return
	}

	log.Printf("Tagged transaction %s as %q", payload.TransactionID, category)
}

// matchDebtCategory maps a transaction name onto a tracked debt's payment
// category. Matching is a case-insensitive substring check in either
// direction, which covers bank descriptors like "TESLA FINANCE PMT".
func matchDebtCategory(name string, debts []records.Debt) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	for _, d := range debts {
		debtName := strings.ToLower(d.Name)
		if debtName == "" {
			continue
		}
		if strings.Contains(lower, debtName) || strings.Contains(debtName, lower) {
			return d.Name + " Payment"
		}
	}
	return ""
}
