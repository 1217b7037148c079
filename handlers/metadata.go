package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/checksum"
	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/repository"
)

// MetadataHandler serves single-file extraction. Extractions are
// catalogued as a side effect so past results stay queryable.
type MetadataHandler struct {
	Extractor *metadata.Extractor
	Records   repository.RecordSaver
	Logger    zerolog.Logger
}

type extractRequest struct {
	Path             string `json:"path"`
	ComputeChecksums bool   `json:"compute_checksums"`
	Catalog          bool   `json:"catalog"`
}

func (mh *MetadataHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: path"})
		return
	}

	rec, err := mh.Extractor.Extract(req.Path, req.ComputeChecksums)
	if err != nil {
		// only a nonexistent path escapes extraction as an error; the
		// record carries the explanatory field
		writeJSON(w, http.StatusNotFound, rec)
		return
	}

	if req.Catalog && mh.Records != nil {
		score, scoreErr := checksum.ContentScore(req.Path)
		if scoreErr != nil {
			mh.Logger.Warn().Str("path", req.Path).Err(scoreErr).Msg("content score failed, cataloguing without it")
		}
		if _, err := mh.Records.Save(rec, score); err != nil {
			mh.Logger.Error().Str("path", req.Path).Err(err).Msg("failed to catalog record")
			WriteAPIError(w, http.StatusInternalServerError, "catalog_failed", "Extraction succeeded but cataloguing failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, rec)
}
