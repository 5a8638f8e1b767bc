package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"lifecfo/internal/domain/records"
)

// Collection names as they appear in the URL and in exports
const (
	collectionIncomeStreams = "incomeStreams"
	collectionExpenses      = "expenses"
	collectionInvestments   = "investments"
	collectionDebts         = "debts"
)

// SnapshotSaver persists the full record snapshot after a mutation
type SnapshotSaver interface {
	Save(ctx context.Context, snap records.Snapshot) error
}

// RecordsHandler serves the four record collections
type RecordsHandler struct {
	store *records.Store
	saver SnapshotSaver
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(store *records.Store, saver SnapshotSaver) *RecordsHandler {
	return &RecordsHandler{store: store, saver: saver}
}

// HandleCollection handles GET and PUT on /api/records/{collection}
func (h *RecordsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, collection)
	case http.MethodPut:
		h.handlePut(w, r, collection)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecordsHandler) handleGet(w http.ResponseWriter, r *http.Request, collection string) {
	var payload any
	switch collection {
	case collectionIncomeStreams:
		payload = h.store.IncomeStreams()
	case collectionExpenses:
		payload = h.store.Expenses()
	case collectionInvestments:
		payload = h.store.Investments()
	case collectionDebts:
		payload = h.store.Debts()
	default:
		http.Error(w, "Unknown collection", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *RecordsHandler) handlePut(w http.ResponseWriter, r *http.Request, collection string) {
	var err error
	switch collection {
	case collectionIncomeStreams:
		var streams []records.IncomeStream
		if decodeErr := json.NewDecoder(r.Body).Decode(&streams); decodeErr != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = h.store.SetIncomeStreams(streams)
	case collectionExpenses:
		var expenses []records.Expense
		if decodeErr := json.NewDecoder(r.Body).Decode(&expenses); decodeErr != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = h.store.SetExpenses(expenses)
	case collectionInvestments:
		var investments []records.Investment
		if decodeErr := json.NewDecoder(r.Body).Decode(&investments); decodeErr != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = h.store.SetInvestments(investments)
	case collectionDebts:
		var debts []records.Debt
		if decodeErr := json.NewDecoder(r.Body).Decode(&debts); decodeErr != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err = h.store.SetDebts(debts)
	default:
		http.Error(w, "Unknown collection", http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.saver.Save(r.Context(), h.store.Snapshot()); err != nil {
		log.Printf("Error persisting snapshot after %s update: %v", collection, err)
		http.Error(w, "Failed to persist records", http.StatusInternalServerError)
		return
	}

	h.handleGet(w, r, collection)
}
