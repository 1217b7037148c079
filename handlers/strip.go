package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/strip"
)

// StripHandler writes metadata-free copies of files.
type StripHandler struct {
	StripsDir string
	Logger    zerolog.Logger
}

type stripRequest struct {
	Path string `json:"path"`
	// InPlaceDir keeps the copy next to the original instead of the
	// configured strips directory.
	InPlaceDir bool `json:"in_place_dir"`
}

func (sh *StripHandler) Strip(w http.ResponseWriter, r *http.Request) {
	var req stripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: path"})
		return
	}

	destDir := sh.StripsDir
	if req.InPlaceDir {
		destDir = ""
	}

	out, err := strip.RemoveMetadata(req.Path, destDir)
	if err != nil {
		if errors.Is(err, strip.ErrUnsupported) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		sh.Logger.Error().Str("path", req.Path).Err(err).Msg("metadata removal failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Metadata removal failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"output": out})
}
