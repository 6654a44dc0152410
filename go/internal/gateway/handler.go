package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// Handler serves the WebSocket endpoint and the read-only HTTP endpoints.
type Handler struct {
	connectionManager *ConnectionManager
}

// NewHandler creates a handler backed by cm.
func NewHandler(cm *ConnectionManager) *Handler {
	return &Handler{connectionManager: cm}
}

// HandleConnection upgrades a request to a table connection.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.connectionManager.UpgradeConnection(w, r); err != nil {
		// The upgrader has already written an HTTP error.
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to upgrade WebSocket connection")
	}
}

// HandleState returns the current table snapshot.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.connectionManager.table.Snapshot())
}

// HandleConnectionStats returns the number of open connections.
func (h *Handler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"total_connections": h.connectionManager.Count()})
}

// JoinURL returns the WebSocket URL controllers dial for this request's host.
func JoinURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	switch r.Header.Get("X-Forwarded-Proto") {
	case "https":
		scheme = "wss"
	case "http":
		scheme = "ws"
	}
	return scheme + "://" + r.Host + "/ws"
}

// HandleQR renders the join URL as a PNG QR code for phones at the table.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	png, err := qrcode.Encode(JoinURL(r), qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to render join QR code")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// RegisterRoutes registers the gateway routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
	mux.HandleFunc("/state", h.HandleState)
	mux.HandleFunc("/qr", h.HandleQR)
	mux.HandleFunc("/health", h.HandleHealth)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
