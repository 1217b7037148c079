package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/compare"
	"github.com/dlages/filescope/metadata"
)

// CompareHandler serves side-by-side metadata comparison of two files.
type CompareHandler struct {
	Extractor *metadata.Extractor
	Logger    zerolog.Logger
}

type compareRequest struct {
	PathA            string `json:"path_a"`
	PathB            string `json:"path_b"`
	ComputeChecksums bool   `json:"compute_checksums"`
}

func (ch *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.PathA) == "" || strings.TrimSpace(req.PathB) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields: path_a and path_b"})
		return
	}

	result := compare.Files(ch.Extractor, req.PathA, req.PathB, req.ComputeChecksums)
	writeJSON(w, http.StatusOK, result)
}
