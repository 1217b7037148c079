package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/analysis"
)

// AnalysisHandler serves entropy profiling and string extraction.
type AnalysisHandler struct {
	ChunkSize       int
	MinStringLength int
	Logger          zerolog.Logger
}

type analysisRequest struct {
	Path      string `json:"path"`
	ChunkSize int    `json:"chunk_size"`
	MinLength int    `json:"min_length"`
}

func (ah *AnalysisHandler) readTarget(w http.ResponseWriter, r *http.Request) (analysisRequest, []byte, bool) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return req, nil, false
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: path"})
		return req, nil, false
	}
	data, err := os.ReadFile(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File does not exist"})
		} else {
			ah.Logger.Error().Str("path", req.Path).Err(err).Msg("failed to read file for analysis")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read file"})
		}
		return req, nil, false
	}
	return req, data, true
}

func (ah *AnalysisHandler) Entropy(w http.ResponseWriter, r *http.Request) {
	req, data, ok := ah.readTarget(w, r)
	if !ok {
		return
	}
	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = ah.ChunkSize
	}
	writeJSON(w, http.StatusOK, analysis.Profile(data, chunkSize))
}

func (ah *AnalysisHandler) Strings(w http.ResponseWriter, r *http.Request) {
	req, data, ok := ah.readTarget(w, r)
	if !ok {
		return
	}
	minLength := req.MinLength
	if minLength <= 0 {
		minLength = ah.MinStringLength
	}

	found := analysis.ExtractStrings(data, minLength)
	suspicious := analysis.FindSuspicious(data)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"strings":    found,
		"count":      len(found),
		"suspicious": suspicious,
	})
}
