package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wallcheck/wallcheck/internal/apperr"
	"github.com/wallcheck/wallcheck/internal/version"
)

// checkRequest is the POST /check body.
type checkRequest struct {
	Domain string `json:"domain"`
}

// errorResponse is the JSON error shape for 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "wallcheck",
		"version": version.Version,
		"endpoints": map[string]string{
			"GET /check":  "probe a domain (query parameter: domain)",
			"POST /check": `probe a domain (body: {"domain": "..."})`,
			"GET /health": "liveness",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var domain string
	switch r.Method {
	case http.MethodGet:
		domain = r.URL.Query().Get("domain")
	case http.MethodPost:
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		domain = req.Domain
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if domain == "" {
		writeError(w, http.StatusBadRequest, "domain parameter is required")
		return
	}

	report, err := s.prober.Probe(r.Context(), domain)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("probe failed", "domain", domain, "error", err)
		writeError(w, http.StatusInternalServerError, "probe failed")
		return
	}

	s.logger.Info("check completed",
		"domain", report.Domain,
		"blocked", report.Summary.IsBlocked,
		"elapsed", report.Summary.ElapsedTime)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
