// Package api exposes the ranking pipeline over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/hirelens/hirelens/internal/pipeline"
	"github.com/hirelens/hirelens/internal/storage"
	"github.com/hirelens/hirelens/pkg/types"
)

// Version reported by the health endpoint.
const Version = "2.0"

// maxBodyBytes caps request bodies; resume batches are text, anything
// beyond this is abuse.
const maxBodyBytes = 16 << 20

// Server handles the HTTP surface. Store may be nil; the run history
// endpoints then answer 404.
type Server struct {
	pipe   *pipeline.Pipeline
	store  storage.Storage
	logger *log.Logger
}

// NewServer builds the HTTP server front end.
func NewServer(pipe *pipeline.Pipeline, store storage.Storage, logger *log.Logger) *Server {
	return &Server{pipe: pipe, store: store, logger: logger}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/config", s.handleConfig)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	contextualOK, _ := s.pipe.AnalyzerAvailable()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "online",
		"timestamp":            time.Now().Format(time.RFC3339),
		"version":              Version,
		"contextual_available": contextualOK,
	})
}

// analyzeResponse mirrors the ranking response with an explicit
// success flag for the frontend.
type analyzeResponse struct {
	Success bool                    `json:"success"`
	RunID   string                  `json:"run_id,omitempty"`
	Results []types.CandidateResult `json:"results"`
	Summary types.Summary           `json:"summary"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req types.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.pipe.Run(r.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success: true,
		RunID:   resp.RunID,
		Results: resp.Results,
		Summary: resp.Summary,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	weights := s.pipe.Weights()
	contextualOK, reason := s.pipe.AnalyzerAvailable()

	writeJSON(w, http.StatusOK, map[string]any{
		"weights": map[string]float64{
			"lexical":    weights.Lexical,
			"semantic":   weights.Semantic,
			"contextual": weights.Contextual,
		},
		"contextual_available": contextualOK,
		"contextual_reason":    reason,
		"history_enabled":      s.store != nil,
	})
}

// runSummaryView is the listing entry for one stored run.
type runSummaryView struct {
	RunID          string        `json:"run_id"`
	JobDescription string        `json:"job_description"`
	Summary        types.Summary `json:"summary"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history disabled")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]runSummaryView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runSummaryView{
			RunID:          run.ID,
			JobDescription: run.JobDescription,
			Summary:        run.Summary,
			CreatedAt:      run.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": views})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history disabled")
		return
	}

	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":          run.ID,
		"job_description": run.JobDescription,
		"results":         run.Results,
		"summary":         run.Summary,
		"created_at":      run.CreatedAt,
	})
}

// isClientError reports whether the pipeline rejected the request
// rather than failed on it.
func isClientError(err error) bool {
	return errors.Is(err, types.ErrEmptyJobDescription) ||
		errors.Is(err, types.ErrNoCandidates) ||
		errors.Is(err, types.ErrNoUsableInput)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
