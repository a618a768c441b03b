package api

import (
	"bytes"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"loads":        s.pipeline.Stats(),
		"live_handles": s.pipeline.Sessions().LiveHandles(),
	}
	if s.watcher != nil {
		resp["watch"] = s.watcher.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStage renders the current stage document.
func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.stage.Render(&buf); err != nil {
		s.log.Error("render stage", "error", err)
		jsonError(w, "failed to render stage", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
