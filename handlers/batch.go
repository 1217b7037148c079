package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dlages/filescope/batch"
	"github.com/dlages/filescope/checksum"
	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/realtime"
	"github.com/dlages/filescope/repository"
)

// BatchHandler controls the shared batch processor. Progress is pushed
// to websocket clients through the hub; completion catalogues every
// result.
type BatchHandler struct {
	Processor *batch.Processor
	Hub       *realtime.Hub
	Records   repository.RecordSaver
	Logger    zerolog.Logger
}

type addFilesRequest struct {
	Paths []string `json:"paths"`
}

func (bh *BatchHandler) AddFiles(w http.ResponseWriter, r *http.Request) {
	var req addFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.Paths) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: paths"})
		return
	}

	added := bh.Processor.AddFiles(req.Paths)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":   added,
		"skipped": len(req.Paths) - added,
	})
}

func (bh *BatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	if bh.Processor.State() == batch.StateRunning {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A batch job is already running"})
		return
	}

	bh.Processor.Start(func(p batch.Progress) {
		event := realtime.Event{
			Type:       realtime.EventBatchProgress,
			JobID:      p.JobID,
			Processed:  p.Processed,
			Total:      p.Total,
			Percentage: p.Percentage,
			Finished:   p.Finished,
		}
		if p.Finished {
			event.Type = realtime.EventBatchCompleted
			go bh.catalogResults(p.JobID)
		}
		bh.Hub.Broadcast(event)
	})

	jobID := bh.Processor.JobID()
	bh.Hub.Broadcast(realtime.Event{Type: realtime.EventBatchStarted, JobID: jobID})
	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"state":  string(bh.Processor.State()),
	})
}

// catalogResults persists every result of the finished job. It runs on
// its own goroutine because the completion callback fires under the
// processor lock.
func (bh *BatchHandler) catalogResults(jobID string) {
	if bh.Records == nil {
		return
	}
	results := bh.Processor.Results()
	saved := 0
	for path, rec := range results {
		if _, ok := rec.StringValue(metadata.FieldError); ok {
			continue
		}
		score, err := checksum.ContentScore(path)
		if err != nil {
			bh.Logger.Warn().Str("path", path).Err(err).Msg("content score failed, cataloguing without it")
		}
		if _, err := bh.Records.Save(rec, score); err != nil {
			bh.Logger.Error().Str("path", path).Err(err).Msg("failed to catalog batch result")
			continue
		}
		saved++
	}
	bh.Logger.Info().Str("job_id", jobID).Int("saved", saved).Int("total", len(results)).Msg("batch results catalogued")
}

func (bh *BatchHandler) Stop(w http.ResponseWriter, r *http.Request) {
	jobID := bh.Processor.JobID()
	bh.Processor.Stop()
	bh.Hub.Broadcast(realtime.Event{Type: realtime.EventBatchStopped, JobID: jobID})
	writeJSON(w, http.StatusOK, map[string]string{"state": string(bh.Processor.State())})
}

func (bh *BatchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	bh.Processor.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"state": string(bh.Processor.State())})
}

func (bh *BatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	processed, total := bh.Processor.Counts()
	status := map[string]interface{}{
		"job_id":    bh.Processor.JobID(),
		"state":     string(bh.Processor.State()),
		"processed": processed,
		"total":     total,
	}
	if total > 0 {
		status["percentage"] = float64(processed) / float64(total) * 100
	}
	writeJSON(w, http.StatusOK, status)
}

func (bh *BatchHandler) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bh.Processor.Results())
}
