package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dlages/filescope/batch"
	"github.com/dlages/filescope/filter"
)

// FilterHandler narrows the current batch results by field criteria.
type FilterHandler struct {
	Processor *batch.Processor
}

type filterRequest struct {
	Criteria []filter.Criterion `json:"criteria"`
}

func (fh *FilterHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	results := fh.Processor.Results()
	filtered := filter.Apply(results, req.Criteria)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(results),
		"matched":  len(filtered),
		"results":  filtered,
		"criteria": req.Criteria,
	})
}
