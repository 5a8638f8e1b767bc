package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"lifecfo/internal/domain/bankfeed"
)

// LinkHandler manages bank connections through the aggregation provider
type LinkHandler struct {
	sync *bankfeed.SyncService
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(sync *bankfeed.SyncService) *LinkHandler {
	return &LinkHandler{sync: sync}
}

// ConnectionResponse is the serialized connection. The credential never
// appears; exports carry the redaction marker in its place.
type ConnectionResponse struct {
	ID              string                `json:"id"`
	InstitutionName string                `json:"institutionName"`
	InstitutionID   string                `json:"institutionId"`
	Accounts        []bankfeed.SubAccount `json:"accounts"`
	ConnectedAt     time.Time             `json:"connectedAt"`
}

// CreateLinkRequest is the body for POST /api/links
type CreateLinkRequest struct {
	PublicToken     string `json:"publicToken"`
	InstitutionName string `json:"institutionName"`
	InstitutionID   string `json:"institutionId"`
}

// HandleLinkToken serves POST /api/links/token
func (h *LinkHandler) HandleLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := h.sync.CreateLinkToken(r.Context())
	if err != nil {
		log.Printf("Error creating link token: %v", err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"linkToken": token})
}

// HandleLinks handles POST (connect) and GET (list) on /api/links
func (h *LinkHandler) HandleLinks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleConnect(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LinkHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := h.sync.Connect(r.Context(), req.PublicToken, req.InstitutionName, req.InstitutionID)
	if err != nil {
		if errors.Is(err, bankfeed.ErrEmptyPublicToken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error connecting institution %q: %v", req.InstitutionName, err)
		http.Error(w, "Failed to connect institution", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toConnectionResponse(conn))
}

func (h *LinkHandler) handleList(w http.ResponseWriter, r *http.Request) {
	conns, err := h.sync.Connections(r.Context())
	if err != nil {
		log.Printf("Error listing connections: %v", err)
		http.Error(w, "Failed to list connections", http.StatusInternalServerError)
		return
	}

	response := make([]ConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		response = append(response, toConnectionResponse(conn))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleLinkByID serves DELETE /api/links/{id}
func (h *LinkHandler) HandleLinkByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Connection ID is required", http.StatusBadRequest)
		return
	}

	if err := h.sync.Disconnect(r.Context(), id); err != nil {
		if errors.Is(err, bankfeed.ErrConnectionNotFound) {
			http.Error(w, "Connection not found", http.StatusNotFound)
			return
		}
		log.Printf("Error disconnecting %s: %v", id, err)
		http.Error(w, "Failed to disconnect", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh serves POST /api/links/refresh
func (h *LinkHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.sync.RefreshAll(r.Context())
	if err != nil {
		log.Printf("Error refreshing connections: %v", err)
		http.Error(w, "Failed to refresh connections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func toConnectionResponse(conn *bankfeed.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:              conn.ID,
		InstitutionName: conn.InstitutionName,
		InstitutionID:   conn.InstitutionID,
		Accounts:        conn.Accounts,
		ConnectedAt:     conn.ConnectedAt,
	}
}
