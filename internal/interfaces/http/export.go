package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/export"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scoring"
)

// ConnectionLister reads the stored connections for export
type ConnectionLister interface {
	Connections(ctx context.Context) ([]*bankfeed.Connection, error)
}

// ExportHandler produces the downloadable backup document
type ExportHandler struct {
	store       *records.Store
	settings    SettingsLoader
	connections ConnectionLister
	now         func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(store *records.Store, settings SettingsLoader, connections ConnectionLister) *ExportHandler {
	return &ExportHandler{
		store:       store,
		settings:    settings,
		connections: connections,
		now:         time.Now,
	}
}

// HandleExport serves GET /api/export
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	settings := scoring.DefaultSettings()
	if h.settings != nil {
		if loaded, err := h.settings.Load(r.Context()); err == nil {
			settings = loaded
		} else {
			log.Printf("Error loading settings for export, using defaults: %v", err)
		}
	}

	var conns []*bankfeed.Connection
	if h.connections != nil {
		loaded, err := h.connections.Connections(r.Context())
		if err != nil {
			log.Printf("Error listing connections for export: %v", err)
			http.Error(w, "Failed to build export", http.StatusInternalServerError)
			return
		}
		conns = loaded
	}

	doc := export.Build(h.store.Snapshot(), settings, conns, h.now())
	encoded, err := export.Encode(doc)
	if err != nil {
		log.Printf("Error encoding export: %v", err)
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="lifecfo-export.json"`)
	w.Write(encoded)
}
