// Package server provides the HTTP server for the gateway.
//
// The server exposes two endpoints:
//
//   - POST {basePath} - receives a raw partner XML document and answers
//     with the translated response document. Connectivity failures
//     toward the reservation host answer 502 with a generic Error
//     document so partners and operators can distinguish them from
//     business rejections.
//   - GET /health - liveness probe.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vronhq/vron-gateway/internal/gateway"
	"github.com/vronhq/vron-gateway/internal/viator"
)

// maxRequestBytes bounds inbound document size.
const maxRequestBytes = 1 << 20

// Server is the gateway HTTP server
type Server struct {
	gateway *gateway.Gateway
	logger  *slog.Logger
	httpSrv *http.Server
}

// Config holds server configuration
type Config struct {
	Port     int
	BasePath string
}

// New creates a new gateway server
func New(cfg *Config, gw *gateway.Gateway, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		gateway: gw,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.BasePath, s.handleBooking)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	return s
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response, err := s.gateway.Process(r.Context(), body)
	if err != nil {
		s.logger.Error("reservation host unreachable", slog.String("error", err.Error()))
		writeXML(w, http.StatusBadGateway, viator.ErrorResponse("Reservation host unavailable"))
		return
	}

	writeXML(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("gateway listening", slog.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
