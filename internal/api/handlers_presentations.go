package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/dgallion1/slidedeck/internal/catalog"
	"github.com/dgallion1/slidedeck/internal/theme"
	"github.com/go-chi/chi/v5"
)

// handleListPresentations lists the .md files with their metadata.
func (s *Server) handleListPresentations(w http.ResponseWriter, r *http.Request) {
	list, err := catalog.Scan(s.cfg.PresentationsDir)
	if err != nil {
		s.log.Error("list presentations", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// handleServePresentation returns the raw markdown of one presentation.
func (s *Server) handleServePresentation(w http.ResponseWriter, r *http.Request) {
	file, ok := catalog.Resolve(s.cfg.PresentationsDir, chi.URLParam(r, "file"))
	if !ok {
		jsonError(w, "presentation not found", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "presentation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("read presentation", "file", file, "error", err)
		jsonError(w, "failed to read presentation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"default": theme.Default,
		"themes":  theme.Names(),
	})
}
