package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
)

// Runner processes many files through a pipeline.
type Runner struct {
	Pipeline *pipeline.Pipeline
}

// New creates a Runner.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files under opts.Paths and processes them concurrently.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes the given files with at most opts.Jobs workers.
// Per-file failures are recorded in the outcomes; the returned error is
// only set when ctx is cancelled. Outcomes keep the order of files.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := r.Pipeline.ProcessFile(ctx, path, opts.Pipeline)
			outcomes[i] = FileOutcome{Path: path, Result: res, Error: err}
			done[i] = true
			return nil
		})
	}
	_ = group.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
