package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/batch"
	"github.com/dlages/filescope/export"
	"github.com/dlages/filescope/metadata"
)

// ExportHandler writes batch results (or a caller-supplied record set)
// to a file under the exports directory.
type ExportHandler struct {
	Processor  *batch.Processor
	ExportsDir string
	Logger     zerolog.Logger
}

type exportRequest struct {
	Format   string            `json:"format"`
	FileName string            `json:"file_name"`
	Records  []metadata.Record `json:"records"`
}

func (eh *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Format) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: format"})
		return
	}

	records := req.Records
	if len(records) == 0 {
		for _, rec := range eh.Processor.Results() {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No records to export"})
		return
	}

	name := strings.TrimSpace(req.FileName)
	if name == "" {
		name = fmt.Sprintf("metadata_%s.%s", time.Now().Format("20060102_150405"), req.Format)
	}
	// exports never escape the exports directory
	name = filepath.Base(name)
	outPath := filepath.Join(eh.ExportsDir, name)

	if err := os.MkdirAll(eh.ExportsDir, 0755); err != nil {
		eh.Logger.Error().Err(err).Msg("failed to create exports directory")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create exports directory"})
		return
	}

	if err := export.Records(records, outPath, export.Format(req.Format)); err != nil {
		if _, ok := err.(export.ErrUnsupportedFormat); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		eh.Logger.Error().Str("path", outPath).Err(err).Msg("export failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Export failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":    outPath,
		"format":  req.Format,
		"records": len(records),
	})
}
