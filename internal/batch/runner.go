package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/linkscout/internal/errmsg"
	"github.com/nao1215/linkscout/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when no concurrency is configured.
const DefaultConcurrency = 4

// Discoverer finds the links of a single seed. *discover.Discoverer
// satisfies it.
type Discoverer interface {
	Discover(ctx context.Context, seed string, limit int) ([]string, error)
}

// Job is one seed to discover.
type Job struct {
	// Seed is the URL to fetch.
	Seed string

	// Limit is the maximum number of links to collect.
	Limit int

	// Discoverer performs the discovery. Jobs may use different
	// discoverers so each site can carry its own cookies and headers.
	Discoverer Discoverer
}

// Callback receives a finished discovery and the index of its job.
// It is called from worker goroutines and must be safe for concurrent use.
type Callback func(d *model.Discovery, index int)

// Runner executes jobs concurrently.
type Runner struct {
	// concurrency is the maximum number of discoveries in flight.
	concurrency int

	// timeout bounds each discovery. Zero means no per-seed deadline.
	timeout time.Duration

	// runID is stamped on every discovery.
	runID string

	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency sets the maximum number of concurrent discoveries.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithTimeout sets the deadline applied to each discovery.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRunID sets the run identifier recorded on each discovery.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// WithLogger sets the logger for batch progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner. Without WithRunID a fresh run id is generated.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.runID == "" {
		r.runID = model.NewRunID()
	}

	return r
}

// RunID returns the identifier stamped on the discoveries of this runner.
func (r *Runner) RunID() string {
	return r.runID
}

// Run discovers every job and returns the discoveries in job order.
//
// Failed discoveries are part of the result. The error is non-nil only when
// ctx is cancelled, in which case the result holds the jobs that finished,
// still in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*model.Discovery, error) {
	return r.RunWithCallback(ctx, jobs, nil)
}

// RunWithCallback is Run with a callback invoked as each discovery
// finishes. A nil callback is allowed.
func (r *Runner) RunWithCallback(ctx context.Context, jobs []Job, callback Callback) ([]*model.Discovery, error) {
	r.logger.Info("starting batch",
		"run_id", r.runID,
		"seeds", len(jobs),
		"concurrency", r.concurrency,
	)

	startTime := time.Now()
	results := make([]*model.Discovery, len(jobs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			d := r.runOne(gctx, job)

			mu.Lock()
			results[i] = d
			mu.Unlock()

			if callback != nil {
				callback(d, i)
			}
			return nil
		})
	}

	err := g.Wait()

	r.logger.Info("batch complete",
		"run_id", r.runID,
		"seeds", len(jobs),
		"elapsed", time.Since(startTime),
	)

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return completed(results), err
	}
	return results, nil
}

// runOne performs a single discovery under the per-seed deadline.
func (r *Runner) runOne(ctx context.Context, job Job) *model.Discovery {
	d := model.NewDiscovery(r.runID, job.Seed, job.Limit)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Info("discovering", "url", job.Seed, "limit", job.Limit)

	urls, err := job.Discoverer.Discover(ctx, job.Seed, job.Limit)
	if err != nil {
		d.Fail(errmsg.Describe(err))
		r.logger.Warn("discovery failed",
			"url", job.Seed,
			"error", err,
		)
		return d
	}

	d.Succeed(urls)
	r.logger.Info("discovery completed",
		"url", job.Seed,
		"links", len(d.Links()),
		"duration", d.Duration,
	)
	return d
}

// completed drops the slots of jobs that never ran.
func completed(results []*model.Discovery) []*model.Discovery {
	out := make([]*model.Discovery, 0, len(results))
	for _, d := range results {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
