// Package batch runs metadata extraction over queued files with a
// bounded worker pool, monotonic progress reporting and per-file
// failure isolation.
package batch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dlages/filescope/metadata"
)

// State of a batch job.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
)

const joinTimeout = 5 * time.Second

// Progress is delivered to the job's callback after every processed
// file, and once more with Finished set when the job completes.
type Progress struct {
	JobID      string  `json:"job_id"`
	Percentage float64 `json:"percentage"`
	Processed  int     `json:"processed"`
	Total      int     `json:"total"`
	Finished   bool    `json:"finished"`
}

// ProgressFunc receives progress updates. It is invoked under the job
// lock and must not call back into the Processor.
type ProgressFunc func(Progress)

// Processor owns one batch job at a time: a FIFO queue of file paths, a
// results map and the progress counters. The counters, results and the
// completion check share a single mutex so no update can be lost and
// the completion callback cannot race a counting worker.
type Processor struct {
	extractor        *metadata.Extractor
	maxWorkers       int
	computeChecksums bool
	logger           zerolog.Logger

	queue chan string

	mu         sync.Mutex
	state      State
	jobID      string
	results    map[string]metadata.Record
	queued     map[string]bool
	processed  int
	total      int
	onProgress ProgressFunc
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewProcessor builds an idle processor. maxWorkers bounds concurrent
// extractions; queueSize bounds how many paths can wait unprocessed.
func NewProcessor(extractor *metadata.Extractor, maxWorkers, queueSize int, computeChecksums bool, logger zerolog.Logger) *Processor {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 4096
	}
	return &Processor{
		extractor:        extractor,
		maxWorkers:       maxWorkers,
		computeChecksums: computeChecksums,
		logger:           logger,
		queue:            make(chan string, queueSize),
		state:            StateIdle,
		results:          make(map[string]metadata.Record),
		queued:           make(map[string]bool),
	}
}

// AddFiles enqueues every path that exists and is a regular file,
// skipping duplicates already queued for this job. Adding is permitted
// mid-run and extends the job's total. Returns the number enqueued.
func (p *Processor) AddFiles(paths []string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if p.queued[path] {
			continue
		}
		select {
		case p.queue <- path:
			p.queued[path] = true
			p.total++
			added++
		default:
			p.logger.Warn().Str("path", path).Msg("batch queue full, skipping file")
		}
	}
	return added
}

// Start spawns up to min(maxWorkers, pending) workers and begins
// processing. It is a no-op when already running. Counters and results
// from a previous run are discarded.
func (p *Processor) Start(onProgress ProgressFunc) {
	p.mu.Lock()
	if p.state == StateRunning {
		p.mu.Unlock()
		return
	}

	p.processed = 0
	p.results = make(map[string]metadata.Record)
	p.onProgress = onProgress
	p.jobID = uuid.NewString()
	p.total = len(p.queue)

	if p.total == 0 {
		p.state = StateCompleted
		if onProgress != nil {
			onProgress(Progress{JobID: p.jobID, Percentage: 100, Finished: true})
		}
		p.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = StateRunning

	workers := p.maxWorkers
	if p.total < workers {
		workers = p.total
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(ctx, i)
	}

	jobID, total := p.jobID, p.total
	p.mu.Unlock()

	p.logger.Info().Str("job_id", jobID).Int("workers", workers).Int("total", total).Msg("batch job started")
}

// worker pulls one path at a time until the queue drains or the job is
// cancelled. Cancellation is observed at every pull, so shutdown latency
// is bounded by the one extraction in flight.
func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug().Int("worker", id).Msg("batch worker stopping")
			return
		case path := <-p.queue:
			p.processOne(path)
		}
	}
}

// processOne extracts one file and records the outcome. Extraction
// failures and worker panics alike are captured as error records and
// counted as processed, so the job always terminates.
func (p *Processor) processOne(path string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("path", path).Interface("panic", r).Msg("batch worker recovered")
			p.record(path, metadata.Record{metadata.FieldError: fmt.Sprintf("extraction crashed: %v", r)})
		}
	}()

	rec, err := p.extractor.Extract(path, p.computeChecksums)
	if err != nil {
		p.logger.Warn().Str("path", path).Err(err).Msg("batch extraction failed")
	}
	p.record(path, rec)
}

// record stores one result and advances the counters atomically with the
// completion check. A worker finishing its in-flight file after Stop
// still keeps the result; progress and completion stay frozen.
func (p *Processor) record(path string, rec metadata.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		p.results[path] = rec
		p.processed++
		return
	}
	if p.state != StateRunning {
		return
	}

	p.results[path] = rec
	p.processed++

	progress := Progress{JobID: p.jobID, Processed: p.processed, Total: p.total}
	if p.total > 0 {
		progress.Percentage = float64(p.processed) / float64(p.total) * 100
	}
	if p.onProgress != nil {
		p.onProgress(progress)
	}

	if p.processed >= p.total {
		p.state = StateCompleted
		if p.onProgress != nil {
			progress.Finished = true
			progress.Percentage = 100
			p.onProgress(progress)
		}
		if p.cancel != nil {
			p.cancel()
		}
	}
}

// Stop cancels the job and joins the workers with a bounded wait. A
// worker mid-extraction finishes its current file first.
func (p *Processor) Stop() {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return
	}
	p.state = StateStopped
	cancel := p.cancel
	jobID := p.jobID
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(joinTimeout):
		p.logger.Warn().Str("job_id", jobID).Msg("batch workers did not stop within join timeout")
	}

	p.logger.Info().Str("job_id", jobID).Msg("batch job stopped")
}

// Clear stops any running job and discards the queue, results and
// counters, returning the processor to Idle.
func (p *Processor) Clear() {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	for {
		select {
		case <-p.queue:
			continue
		default:
		}
		break
	}
	p.results = make(map[string]metadata.Record)
	p.queued = make(map[string]bool)
	p.processed = 0
	p.total = 0
	p.jobID = ""
	p.state = StateIdle
}

// State reports the job's current lifecycle state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// JobID reports the identifier of the current (or last) run.
func (p *Processor) JobID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID
}

// Counts reports processed and total file counts.
func (p *Processor) Counts() (processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.total
}

// Results returns a copy of the results accumulated so far.
func (p *Processor) Results() map[string]metadata.Record {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]metadata.Record, len(p.results))
	for path, rec := range p.results {
		out[path] = rec
	}
	return out
}
