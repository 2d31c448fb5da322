// Package server exposes the scheduler over HTTP: generate schedules,
// export them as a workbook, and manage the saved session history.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/torneoapp/torneo/internal/engine"
	"github.com/torneoapp/torneo/internal/excel"
	"github.com/torneoapp/torneo/internal/session"
)

// Server handles the scheduling API. Sessions may be nil, in which case
// the session endpoints answer 503.
type Server struct {
	sessions *session.Store
	logger   zerolog.Logger
}

func New(sessions *session.Store, logger zerolog.Logger) *Server {
	return &Server{sessions: sessions, logger: logger}
}

// Handler builds the routing table with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/schedule", s.handleSchedule)
	mux.HandleFunc("POST /api/export/excel", s.handleExportExcel)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleSaveSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return s.logRequests(c.Handler(mux))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// categoryParams is the wire form of one category's scheduling request.
type categoryParams struct {
	Category          string   `json:"category"`
	Teams             int      `json:"teams"`
	TeamNames         []string `json:"team_names,omitempty"`
	Fields            int      `json:"fields"`
	StartTime         string   `json:"start_time"`
	MatchDuration     int      `json:"match_duration"`
	BreakDuration     int      `json:"break_duration"`
	HalfTimeInterval  int      `json:"half_time_interval,omitempty"`
	LunchBreak        int      `json:"lunch_break,omitempty"`
	SplitRatio        string   `json:"split_ratio,omitempty"`
	TotalGameTime     int      `json:"total_game_time,omitempty"`
	NoReferee         bool     `json:"no_referee,omitempty"`
	DedicatedReferees bool     `json:"dedicated_referees,omitempty"`
}

func (p categoryParams) request() engine.Request {
	return engine.Request{
		Category:          p.Category,
		NumTeams:          p.Teams,
		NumFields:         p.Fields,
		StartTime:         p.StartTime,
		MatchDuration:     p.MatchDuration,
		BreakDuration:     p.BreakDuration,
		HalfTimeInterval:  p.HalfTimeInterval,
		LunchBreak:        p.LunchBreak,
		SplitRatio:        p.SplitRatio,
		TotalGameTime:     p.TotalGameTime,
		TeamNames:         p.TeamNames,
		NoReferee:         p.NoReferee,
		DedicatedReferees: p.DedicatedReferees,
	}
}

type scheduleRequest struct {
	EventName  string           `json:"event_name,omitempty"`
	EventDate  string           `json:"event_date,omitempty"`
	Categories []categoryParams `json:"categories"`
}

type scheduleResponse struct {
	Schedules []*engine.Result `json:"schedules"`
}

func (s *Server) generateAll(w http.ResponseWriter, r *http.Request) (*scheduleRequest, []*engine.Result, bool) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return nil, nil, false
	}
	if len(req.Categories) == 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("at least one category is required"))
		return nil, nil, false
	}

	results := make([]*engine.Result, 0, len(req.Categories))
	for _, params := range req.Categories {
		result, err := engine.Generate(params.request())
		if err != nil {
			s.writeError(w, http.StatusUnprocessableEntity,
				fmt.Errorf("category %q: %w", params.Category, err))
			return nil, nil, false
		}
		results = append(results, result)
	}
	return &req, results, true
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	_, results, ok := s.generateAll(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, scheduleResponse{Schedules: results})
}

func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	req, results, ok := s.generateAll(w, r)
	if !ok {
		return
	}

	f, err := excel.Generate(results, req.EventName, req.EventDate)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("rendering workbook: %w", err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("writing workbook response")
	}
}

type saveSessionRequest struct {
	Label  string          `json:"label"`
	Params json.RawMessage `json:"params"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("session store not configured"))
		return
	}
	sessions, err := s.sessions.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	s.writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("session store not configured"))
		return
	}
	var req saveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if len(req.Params) == 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("params is required"))
		return
	}
	saved, err := s.sessions.Save(req.Label, req.Params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("session store not configured"))
		return
	}
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
