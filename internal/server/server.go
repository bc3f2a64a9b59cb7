package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"wsnap-go/internal/snap"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// statusLimit caps how many records the status endpoint and the dashboard
// show. The CLI has its own, smaller default.
const statusLimit = 50

// Server exposes the snapshot service over HTTP: a small JSON API plus an
// HTML dashboard. There is no authentication; it is meant for loopback use
// by a single operator.
type Server struct {
	svc           *snap.Service
	workspaceRoot string
	logger        snap.Logger
	tmpl          *template.Template
}

// New creates a Server for svc. workspaceRoot is used only for the
// dashboard's disk usage line.
func New(svc *snap.Service, workspaceRoot string, logger snap.Logger) *Server {
	if logger == nil {
		logger = snap.NewNopLogger()
	}
	return &Server{
		svc:           svc,
		workspaceRoot: workspaceRoot,
		logger:        logger,
		tmpl:          template.Must(template.ParseFS(templateFS, "templates/dashboard.html")),
	}
}

// Handler returns the route table. Methods are enforced by the mux patterns.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/backup", s.handleBackup)
	mux.HandleFunc("POST /api/restore/{id}", s.handleRestore)
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	return mux
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

// backupSummary is the JSON shape of one record in listings.
type backupSummary struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	WorkspaceHash string    `json:"workspace_hash"`
	MemoryHash    string    `json:"memory_hash"`
}

type statusResponse struct {
	Status  string          `json:"status"`
	Backups []backupSummary `json:"backups"`
}

// opResponse reports the outcome of a backup or restore request.
type opResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.List(statusLimit)
	if err != nil {
		s.logger.Error("status failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, opResponse{Success: false, Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Backups: summarize(recs)})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	// The body is optional JSON: {"name": "..."}. No body means the
	// default backup name.
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, opResponse{Success: false, Error: "invalid request body"})
		return
	}

	rec, err := s.svc.Backup(req.Name)
	if err != nil {
		s.logger.Error("backup failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, opResponse{Success: false, Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, opResponse{Success: true, ID: rec.ID})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, opResponse{Success: false, Error: "invalid backup id"})
		return
	}

	if err := s.svc.Restore(id); err != nil {
		s.logger.Error("restore failed", "id", id, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, opResponse{Success: false, Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, opResponse{Success: true})
}

// dashboardData feeds the HTML template.
type dashboardData struct {
	Backups []backupSummary
	Disk    string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.List(statusLimit)
	if err != nil {
		s.logger.Error("dashboard failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := dashboardData{Backups: summarize(recs), Disk: s.diskLine()}
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("rendering dashboard", "error", err)
	}
}

// diskLine describes the workspace volume. A failed probe (workspace on a
// vanished mount, say) just drops the line from the dashboard.
func (s *Server) diskLine() string {
	usage, err := disk.Usage(s.workspaceRoot)
	if err != nil {
		s.logger.Warn("disk usage probe failed", "path", s.workspaceRoot, "error", err)
		return ""
	}
	const gb = 1 << 30
	return fmt.Sprintf("workspace volume %.1f%% used, %.1f GB free of %.1f GB",
		usage.UsedPercent, float64(usage.Free)/gb, float64(usage.Total)/gb)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func summarize(recs []*snap.Record) []backupSummary {
	out := make([]backupSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, backupSummary{
			ID:            rec.ID,
			Name:          rec.Name,
			CreatedAt:     rec.CreatedAt,
			WorkspaceHash: rec.WorkspaceHash,
			MemoryHash:    rec.MemoryHash,
		})
	}
	return out
}
