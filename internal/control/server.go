package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the resilience core's status over HTTP.
type Server struct {
	app    *Sentinel
	server *http.Server
}

// NewServer creates the HTTP status server.
func NewServer(app *Sentinel, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		app: app,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/errors", s.handleErrors)
	mux.HandleFunc("/errors/export", s.handleExport)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.app.monitor.Status()

	response := map[string]any{
		"connectivity": state,
		"errors":       s.app.agg.Summary(),
		"retries":      s.app.orch.Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	if !state.IsOnline {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.app.agg.Records())
	case http.MethodDelete:
		s.app.h.Reset()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleExport builds the privacy-safe report, writes it to the export dir,
// archives it when a database is configured, and returns it as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report := s.app.agg.ExportReport(s.app.cfg.Component)

	if path, err := s.app.writer.Write(report); err != nil {
		s.app.log.Error("Failed to write report file", "error", err)
	} else {
		s.app.log.Info("Report exported", "path", path)
	}

	if s.app.reports != nil {
		if err := s.app.reports.Save(r.Context(), report); err != nil {
			s.app.log.Error("Failed to archive report", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=error-report.json")
	json.NewEncoder(w).Encode(report)
}
