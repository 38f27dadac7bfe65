package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	MinWorkers = 1
	MaxWorkers = 8
)

// Executor bounds how many tasks run at once for a single fan-out. Each fan-out
// gets its own Executor; nothing is shared between them or between requests.
//
// Results are delivered in completion order, never submission order, so callers
// merging results must not rely on the order of items.
//
// Example:
//
//	exec := pool.NewExecutor(pool.Clamp(len(servers), pool.DefaultWorkers(0)))
//	for res := range pool.Stream(ctx, exec, servers, fetch) {
//	  ...
//	}
type Executor struct {
	workers int
}

func NewExecutor(workers int) *Executor {
	if workers < MinWorkers {
		workers = MinWorkers
	}
	return &Executor{workers: workers}
}

func (e *Executor) Workers() int {
	return e.workers
}

// ResolveWorkers picks a worker count: an explicit configured value wins,
// otherwise the cpu count clamped to [MinWorkers, MaxWorkers].
func ResolveWorkers(configured, cpus int) int {
	if configured > 0 {
		return configured
	}
	if cpus < MinWorkers {
		return MinWorkers
	}
	if cpus > MaxWorkers {
		return MaxWorkers
	}
	return cpus
}

func DefaultWorkers(configured int) int {
	return ResolveWorkers(configured, runtime.NumCPU())
}

// Clamp caps workers to the number of tasks, there's no point spinning up
// more than we can hand work to
func Clamp(tasks, workers int) int {
	if tasks < workers {
		workers = tasks
	}
	if workers < MinWorkers {
		return MinWorkers
	}
	return workers
}

// Stream runs fn for every item with at most e.Workers() calls in flight and
// yields each result as soon as it completes. The channel is closed once every
// item has been processed. fn must not panic and should honour ctx.
func Stream[T, R any](ctx context.Context, e *Executor, items []T, fn func(context.Context, T) R) <-chan R {
	// buffered to len(items) so a slow consumer never holds a worker hostage
	out := make(chan R, len(items))
	if len(items) == 0 {
		close(out)
		return out
	}

	go func() {
		defer close(out)

		var eg errgroup.Group
		eg.SetLimit(e.workers)

		for _, item := range items {
			eg.Go(func() error {
				out <- fn(ctx, item)
				return nil
			})
		}

		_ = eg.Wait()
	}()

	return out
}
