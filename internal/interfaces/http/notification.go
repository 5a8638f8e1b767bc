package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"lifecfo/internal/domain/notification"
)

// NotificationHandler registers and removes push device tokens
type NotificationHandler struct {
	notificationService *notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

type UnregisterDeviceRequest struct {
	Token string `json:"token"`
}

const maxNotificationBodySize = 1 << 20 // 1 MiB

// HandleDevices handles POST (register) and DELETE (unregister) on
// /api/devices
func (h *NotificationHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRegister(w, r)
	case http.MethodDelete:
		h.handleUnregister(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NotificationHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxNotificationBodySize)
	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := notification.CreateDeviceTokenParams{
		Token:      req.Token,
		DeviceType: req.DeviceType,
	}

	token, err := h.notificationService.RegisterDevice(r.Context(), params)
	if err != nil {
		if errors.Is(err, notification.ErrInvalidToken) || errors.Is(err, notification.ErrInvalidDeviceType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error registering device: %v", err)
		http.Error(w, "Failed to register device", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"token":   token.Token,
	})
}

func (h *NotificationHandler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxNotificationBodySize)
	var req UnregisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.UnregisterDevice(r.Context(), req.Token); err != nil {
		if errors.Is(err, notification.ErrDeviceTokenNotFound) {
			http.Error(w, "Device token not found", http.StatusNotFound)
			return
		}
		log.Printf("Error unregistering device: %v", err)
		http.Error(w, "Failed to unregister device", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
