// Package server exposes the analysis pipeline over HTTP: CSV upload,
// report retrieval, and account endpoints.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/ashvale/logwarden/internal/auth"
	"github.com/ashvale/logwarden/internal/engine"
	"github.com/ashvale/logwarden/internal/engine/schema"
	"github.com/ashvale/logwarden/internal/ingest"
)

const defaultMaxUpload = 32 << 20 // 32MB

// Server handles upload, report, and account requests. Reports live in
// memory for the life of the process; they are per-upload artifacts, not
// baselines, and are never fed back into later analyses.
type Server struct {
	engine    *engine.Engine
	accounts  *auth.Store // nil disables account endpoints
	maxUpload int64

	mu      sync.Mutex
	reports map[string]engine.Report
}

// New creates a Server. accounts may be nil when no database is configured.
func New(eng *engine.Engine, accounts *auth.Store, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Server{
		engine:    eng,
		accounts:  accounts,
		maxUpload: maxUpload,
		reports:   make(map[string]engine.Report),
	}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /reports/{id}", s.handleReport)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form file 'file'")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "please upload a CSV file")
		return
	}

	tableHeader, rows, err := ingest.ReadTable(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.engine.Analyze(tableHeader, rows)
	if err != nil {
		status := http.StatusInternalServerError
		var verr *schema.ValidationError
		if errors.As(err, &verr) || errors.Is(err, engine.ErrEmptyBatch) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	id := newReportID()
	s.mu.Lock()
	s.reports[id] = report
	s.mu.Unlock()

	slog.Info("batch analyzed",
		"file", header.Filename,
		"rows", len(rows),
		"results", len(report.Results),
		"dropped", report.Summary.DroppedRows,
		"report_id", id,
	)

	w.Header().Set("Location", "/reports/"+id)
	writeJSON(w, http.StatusSeeOther, map[string]string{"report_id": id})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	report, ok := s.reports[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account store not configured")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	id, err := s.accounts.Create(r.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, auth.ErrExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("register failed", "err", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "account store not configured")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newReportID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
