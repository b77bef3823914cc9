// File path: internal/api/server.go

// Package api exposes the assessment pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riventa/pulsecheck/internal/analysis"
	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/config"
	"github.com/riventa/pulsecheck/internal/pipeline"
	"github.com/riventa/pulsecheck/internal/report"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/store"
)

type Server struct {
	router  chi.Router
	cfg     config.Config
	manager *pipeline.Manager
	db      *store.Store
}

// NewServer wires routes over an existing pipeline manager. The store may
// be nil; status lookups then rely on in-memory run state only.
func NewServer(cfg config.Config, manager *pipeline.Manager, db *store.Store) *Server {
	srv := &Server{
		router:  chi.NewRouter(),
		cfg:     cfg,
		manager: manager,
		db:      db,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/api/assessments", s.handleSubmit)
	s.router.Get("/api/assessments/{id}", s.handleStatus)
	s.router.Get("/api/assessments/{id}/reports/{name}", s.handleReport)
	s.router.Get("/api/logs", s.handleLogs)
}

type submitResponse struct {
	SubmissionID string `json:"submissionId"`
	Status       string `json:"status"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var input score.QuestionnaireInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode submission: %w", err))
		return
	}
	if strings.TrimSpace(input.SubmissionID) == "" {
		input.SubmissionID = uuid.NewString()
	}
	if strings.TrimSpace(input.Business.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, errors.New("company name required"))
		return
	}
	if len(input.Answers) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("answers required"))
		return
	}
	if s.db != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("encode submission: %w", err))
			return
		}
		rec := store.SubmissionRecord{
			ID:      input.SubmissionID,
			Company: input.Business.CompanyName,
			Payload: string(payload),
		}
		if err := s.db.SaveSubmission(r.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	if err := s.manager.Start(input); err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{
		SubmissionID: input.SubmissionID,
		Status:       pipeline.StatusPending,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := s.manager.Status(id)
	if err == nil {
		writeJSON(w, http.StatusOK, st)
		return
	}
	if !errors.Is(err, pipeline.ErrRunNotFound) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.db != nil {
		rec, derr := s.db.GetState(r.Context(), id)
		if derr == nil {
			writeJSON(w, http.StatusOK, pipeline.State{
				SubmissionID: rec.SubmissionID,
				Status:       rec.Status,
				CurrentPhase: pipeline.Phase(rec.Phase),
				Metrics: pipeline.Metrics{
					TotalTokensUsed: rec.Tokens,
					EstimatedCost:   rec.Cost,
					ExecutionTimeMs: rec.ElapsedMs,
				},
				UpdatedAt: rec.UpdatedAt,
				Error:     rec.Error,
			})
			return
		}
		if !errors.Is(derr, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, derr)
			return
		}
	}
	writeError(w, http.StatusNotFound, pipeline.ErrRunNotFound)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")
	if !validReport(name) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown report %q", name))
		return
	}
	path := filepath.Join(s.cfg.OutputRoot, id, "phase5", report.FileName(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, fmt.Errorf("report %s not available", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func validReport(name string) bool {
	for _, candidate := range analysis.Reports() {
		if candidate == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
