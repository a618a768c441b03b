package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/slidedeck/internal/scheduler"
	"github.com/dgallion1/slidedeck/internal/session"
)

type selectRequest struct {
	Path  string `json:"path"`
	Theme string `json:"theme"`
}

type slideRequest struct {
	H int `json:"h"`
	V int `json:"v"`
}

type sessionResponse struct {
	Session  session.Snapshot  `json:"session"`
	Selected scheduler.Request `json:"selected"`
	Error    string            `json:"error,omitempty"`
}

// handleSelect schedules a presentation load. An empty path clears the stage.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sched := s.pipeline.Select(req.Path, req.Theme)
	writeAccepted(w, sched)
}

// handleReload re-schedules the current selection.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sched, ok := s.pipeline.Reload()
	if !ok {
		jsonError(w, "no presentation selected", http.StatusConflict)
		return
	}
	writeAccepted(w, sched)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionStatus())
}

// handleGotoSlide navigates the active session.
func (s *Server) handleGotoSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !s.pipeline.Sessions().GotoSlide(req.H, req.V) {
		jsonError(w, "no active session", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionStatus())
}

func (s *Server) sessionStatus() sessionResponse {
	resp := sessionResponse{
		Session:  s.pipeline.Sessions().Snapshot(),
		Selected: s.pipeline.Selected(),
	}
	if msg, ok := s.stage.ErrorMessage(); ok {
		resp.Error = msg
	}
	return resp
}

func writeAccepted(w http.ResponseWriter, req scheduler.Request) {
	writeJSON(w, http.StatusAccepted, map[string]any{
		"token": req.Token,
		"path":  req.Path,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
