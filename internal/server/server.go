// Package server exposes the CPE dictionary and matching engine over HTTP,
// backed by Postgres.
package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PhucNguyen204/cpe_engine/cpe"
	"github.com/PhucNguyen204/cpe_engine/cpelang"
	"github.com/PhucNguyen204/cpe_engine/matching"
)

type AppServer struct {
	db  *sql.DB
	log *slog.Logger

	mu    sync.RWMutex // protects known-set swap
	known *matching.Set

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	matches  *prometheus.CounterVec
}

func NewAppServer(db *sql.DB, logger *slog.Logger) *AppServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AppServer{
		db:       db,
		log:      logger,
		known:    matching.NewSet(),
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpe_api_requests_total",
			Help: "API requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpe_match_total",
			Help: "Name and document match outcomes.",
		}, []string{"kind", "result"}),
	}
	s.registry.MustRegister(s.requests, s.matches)
	return s
}

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/v1/names", s.handleNames)
	mux.HandleFunc("/api/v1/match", s.handleMatch)
	mux.HandleFunc("/api/v1/convert", s.handleConvert)
	mux.HandleFunc("/api/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
}

func (s *AppServer) currentKnown() *matching.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known
}

// SwapKnown replaces the known-instance set.
func (s *AppServer) SwapKnown(set *matching.Set) {
	s.mu.Lock()
	s.known = set
	s.mu.Unlock()
}

// ---- Handlers ----

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	type statsResp struct {
		KnownNames int `json:"known_names"`
	}
	s.count("stats", http.StatusOK)
	writeJSON(w, http.StatusOK, statsResp{KnownNames: s.currentKnown().Len()})
}

func (s *AppServer) handleNames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names := s.currentKnown().Names()
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, n.String())
		}
		s.count("names", http.StatusOK)
		writeJSON(w, http.StatusOK, map[string]any{"names": out})
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if !s.decodeBody(w, r, "names", &req) {
			return
		}
		n, err := cpe.ParseName(req.Name)
		if err != nil {
			s.badRequest(w, "names", err)
			return
		}
		if err := s.UpsertName(r.Context(), n); err != nil {
			s.log.Error("upsert name", "name", req.Name, "error", err)
			s.count("names", http.StatusInternalServerError)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store failure"})
			return
		}
		s.mu.Lock()
		added := s.known.Add(n)
		s.mu.Unlock()
		s.count("names", http.StatusOK)
		writeJSON(w, http.StatusOK, map[string]any{"added": added})
	default:
		s.count("names", http.StatusMethodNotAllowed)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *AppServer) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.count("match", http.StatusMethodNotAllowed)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, "match", &req) {
		return
	}
	n, err := cpe.ParseName(req.Name)
	if err != nil {
		s.badRequest(w, "match", err)
		return
	}
	match := s.currentKnown().NameMatch(n)
	s.matches.WithLabelValues("name", boolLabel(match)).Inc()
	s.count("match", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]bool{"match": match})
}

func (s *AppServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.count("convert", http.StatusMethodNotAllowed)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name   string `json:"name"`
		Target string `json:"target"`
	}
	if !s.decodeBody(w, r, "convert", &req) {
		return
	}
	n, err := cpe.ParseName(req.Name)
	if err != nil {
		s.badRequest(w, "convert", err)
		return
	}
	var bound string
	switch req.Target {
	case "wfn":
		bound, err = n.WFN()
	case "uri":
		bound, err = n.URI()
	case "fs":
		bound, err = n.FS()
	case "1.1":
		bound, err = n.URI11()
	default:
		s.count("convert", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must be wfn, uri, fs or 1.1"})
		return
	}
	if err != nil {
		s.badRequest(w, "convert", err)
		return
	}
	s.count("convert", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"name": bound})
}

func (s *AppServer) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.count("evaluate", http.StatusMethodNotAllowed)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.badRequest(w, "evaluate", err)
		return
	}
	doc, err := cpelang.ParseJSON(body)
	if err != nil {
		s.badRequest(w, "evaluate", err)
		return
	}
	match := doc.Match(s.currentKnown())
	s.matches.WithLabelValues("document", boolLabel(match)).Inc()
	s.count("evaluate", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]bool{"match": match})
}

// ---- helpers ----

func (s *AppServer) decodeBody(w http.ResponseWriter, r *http.Request, endpoint string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.badRequest(w, endpoint, err)
		return false
	}
	return true
}

func (s *AppServer) badRequest(w http.ResponseWriter, endpoint string, err error) {
	s.count(endpoint, http.StatusBadRequest)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (s *AppServer) count(endpoint string, status int) {
	s.requests.WithLabelValues(endpoint, http.StatusText(status)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
