// Package jobs runs merge pipelines in the background and tracks their progress.
package jobs

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge"
	"github.com/ukaji3/sheetmerge-go/pkg/sheetmerge/models"
)

// State is the lifecycle state of a job.
type State string

const (
	StateQueued         State = "queued"
	StateRunning        State = "running"
	StateCompleted      State = "completed"
	StateNothingToMerge State = "nothing_to_merge"
	StateFailed         State = "failed"
)

// ErrEmptyRequest indicates a request naming neither a directory nor files.
var ErrEmptyRequest = errors.New("request must name a directory or files")

// Request describes one merge job.
type Request struct {
	// Dir is scanned for workbooks when Files is empty.
	Dir string `json:"dir,omitempty"`
	// Files lists workbook paths explicitly.
	Files []string `json:"files,omitempty"`
	// Only restricts the inputs to these base names.
	Only []string `json:"only,omitempty"`
	// OutputPath overrides the runner's default output workbook.
	OutputPath string `json:"output_path,omitempty"`
	// SQLitePath overrides the runner's default SQLite database.
	SQLitePath string `json:"sqlite_path,omitempty"`
}

// Job is a snapshot of one submitted request.
type Job struct {
	ID         string          `json:"id"`
	State      State           `json:"state"`
	Progress   int             `json:"progress"`
	Message    string          `json:"message,omitempty"`
	Request    Request         `json:"request"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Summary    *models.Summary `json:"summary,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// MergeFunc runs one merge pipeline.
type MergeFunc func(ctx context.Context, paths []string, opts sheetmerge.Options) (*sheetmerge.Result, error)

// Runner executes jobs one at a time, in submission order, on a single
// worker goroutine. A job runs to completion once started; there is no
// cancellation. Jobs without an explicit output path write to
// <stem>_<jobID><ext> next to the runner's default path.
type Runner struct {
	base       sheetmerge.Options
	extensions []string
	merge      MergeFunc
	logger     *log.Logger

	mu      sync.RWMutex
	jobs    map[string]*Job
	queue   []string
	working bool
	wg      sync.WaitGroup
}

// NewRunner creates a runner whose jobs start from base options and
// discover workbooks with the given extensions.
func NewRunner(base sheetmerge.Options, extensions []string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if base.Logger == nil {
		base.Logger = logger
	}
	return &Runner{
		base:       base,
		extensions: extensions,
		merge:      sheetmerge.Merge,
		logger:     logger,
		jobs:       make(map[string]*Job),
	}
}

// WithMergeFunc replaces the pipeline, for tests.
func (r *Runner) WithMergeFunc(fn MergeFunc) *Runner {
	r.merge = fn
	return r
}

// Submit queues req and returns its job ID.
func (r *Runner) Submit(req Request) (string, error) {
	if req.Dir == "" && len(req.Files) == 0 {
		return "", ErrEmptyRequest
	}

	job := &Job{
		ID:        uuid.NewString(),
		State:     StateQueued,
		Request:   req,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.queue = append(r.queue, job.ID)
	r.wg.Add(1)
	if !r.working {
		r.working = true
		go r.work()
	}
	r.mu.Unlock()

	r.logger.Printf("[Jobs] queued %s", job.ID)
	return job.ID, nil
}

// work drains the queue and exits when it is empty.
func (r *Runner) work() {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.working = false
			r.mu.Unlock()
			return
		}
		id := r.queue[0]
		r.queue = r.queue[1:]
		req := r.jobs[id].Request
		r.mu.Unlock()

		r.run(id, req)
		r.wg.Done()
	}
}

func (r *Runner) run(id string, req Request) {
	r.update(id, func(j *Job) { j.State = StateRunning })

	opts := r.base
	opts.OutputPath = jobPath(req.OutputPath, r.base.OutputPath, sheetmerge.DefaultOutputPath, id)
	opts.SQLitePath = jobPath(req.SQLitePath, r.base.SQLitePath, "", id)
	opts.Progress = func(percent int, message string) {
		r.update(id, func(j *Job) {
			j.Progress = percent
			j.Message = message
		})
	}

	result, err := r.execute(req, opts)
	now := time.Now()
	r.update(id, func(j *Job) {
		j.FinishedAt = &now
		if err != nil {
			j.State = StateFailed
			j.Error = err.Error()
			return
		}
		j.Progress = 100
		j.Summary = &result.Summary
		j.OutputPath = result.OutputPath
		if result.Outcome == sheetmerge.OutcomeNothingToMerge {
			j.State = StateNothingToMerge
			return
		}
		j.State = StateCompleted
	})

	if err != nil {
		r.logger.Printf("[Jobs] %s failed: %v", id, err)
		return
	}
	r.logger.Printf("[Jobs] %s finished: %s", id, result.Outcome)
}

func (r *Runner) execute(req Request, opts sheetmerge.Options) (*sheetmerge.Result, error) {
	paths := req.Files
	if len(paths) == 0 {
		var err error
		paths, err = sheetmerge.Discover(req.Dir, r.extensions)
		if err != nil {
			return nil, err
		}
	}
	if len(req.Only) > 0 {
		paths = sheetmerge.Restrict(paths, req.Only, opts.Logger)
	}
	return r.merge(context.Background(), paths, opts)
}

// jobPath returns the requested path, or the default path with the job ID
// appended to its stem. An empty default stays empty.
func jobPath(requested, base, fallback, id string) string {
	if requested != "" {
		return requested
	}
	if base == "" {
		base = fallback
	}
	if base == "" {
		return ""
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + id + ext
}

func (r *Runner) update(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
	}
}

// Get returns a snapshot of the job with the given ID.
func (r *Runner) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns snapshots of all jobs, oldest first.
func (r *Runner) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
