// Package status exposes the connection manager over a small HTTP control
// surface for local UIs and tooling.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/walletbridge/internal/connect"
	"github.com/vietddude/walletbridge/internal/core/address"
	"github.com/vietddude/walletbridge/internal/infra/provider"
)

// Server exposes connection state and control endpoints.
type Server struct {
	manager        *connect.Manager
	blockchainMode bool
	log            *slog.Logger
	server         *http.Server
}

// NewServer creates a new control server on the given port.
func NewServer(manager *connect.Manager, blockchainMode bool, port int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		manager:        manager,
		blockchainMode: blockchainMode,
		log:            log,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/address-format", s.handleAddressFormat)
	mux.HandleFunc("/connect", s.handleConnect)
	mux.HandleFunc("/disconnect", s.handleDisconnect)
	mux.HandleFunc("/network", s.handleNetwork)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Status())
}

func (s *Server) handleAddressFormat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, address.DescribeFormat(s.blockchainMode))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := s.manager.Connect(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.manager.Status())
	case errors.Is(err, connect.ErrConnectInFlight):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, provider.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.manager.Disconnect(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Status())
}

type networkRequest struct {
	ChainID uint64 `json:"chainId"`
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req networkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChainID == 0 {
		writeError(w, http.StatusBadRequest, errors.New("body must carry a non-zero chainId"))
		return
	}

	if err := s.manager.SwitchNetwork(r.Context(), req.ChainID); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Status())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
