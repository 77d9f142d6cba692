package domain

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	m "gooze.dev/pkg/mutest/internal/model"
)

// collector is the append-only, synchronized sink workers report into.
type collector struct {
	mu      sync.Mutex
	mutants []m.Mutant
	notify  func(m.Mutant)
}

func (c *collector) add(mutant m.Mutant) {
	c.mu.Lock()
	c.mutants = append(c.mutants, mutant)
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(mutant)
	}
}

// sorted returns the collected mutants in generation order.
func (c *collector) sorted() []m.Mutant {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := append([]m.Mutant(nil), c.mutants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })

	return out
}

type progressKey struct{}

// WithProgress returns a context whose ExecuteAll calls report every
// resolved mutant to fn. fn may be called from several goroutines.
func WithProgress(ctx context.Context, fn func(m.Mutant)) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFrom(ctx context.Context) func(m.Mutant) {
	fn, _ := ctx.Value(progressKey{}).(func(m.Mutant))
	return fn
}

type batchStartKey struct{}

// WithBatchStart returns a context whose ExecuteAll calls report the number
// of mutants about to run and the worker count before the first one starts.
func WithBatchStart(ctx context.Context, fn func(pending, workers int)) context.Context {
	return context.WithValue(ctx, batchStartKey{}, fn)
}

func (e *executor) ExecuteAll(ctx context.Context, ws Workspace, mutants []m.Mutant) ([]m.Mutant, error) {
	if err := ws.validate(); err != nil {
		return nil, err
	}

	out := &collector{mutants: make([]m.Mutant, 0, len(mutants)), notify: progressFrom(ctx)}
	pending := make([]m.Mutant, 0, len(mutants))

	for _, mutant := range mutants {
		if mutant.Status.Terminal() {
			out.add(mutant)
			continue
		}

		pending = append(pending, mutant)
	}

	workers := min(max(ws.Concurrency, 1), len(pending))
	jobs := make(chan m.Mutant, len(pending))

	for _, mutant := range pending {
		jobs <- mutant
	}

	close(jobs)

	slog.Info("Executing mutants", "pending", len(pending), "workers", workers)

	if started, ok := ctx.Value(batchStartKey{}).(func(int, int)); ok {
		started(len(pending), workers)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	health := &poolHealth{workers: int32(workers)}
	health.alive.Store(int32(workers))

	for id := range workers {
		group.Go(func() error {
			return e.work(groupCtx, id, ws, jobs, out, health)
		})
	}

	err := group.Wait()

	// Jobs are left over only after a BatchFatalError.
	for mutant := range jobs {
		out.add(e.skip(mutant, err))
	}

	if err != nil {
		slog.Error("Failed to execute mutants", "error", err)
		return out.sorted(), err
	}

	return out.sorted(), nil
}

// poolHealth tracks sandbox preparation across the workers of one batch.
type poolHealth struct {
	workers  int32
	alive    atomic.Int32
	failures atomic.Int32
	ready    atomic.Bool
}

// retire removes a worker from the pool unless it is the last one running.
func (h *poolHealth) retire() bool {
	if h.alive.Add(-1) > 0 {
		return true
	}

	h.alive.Add(1)

	return false
}

// hopeless reports that every worker's worth of attempts failed and not one
// sandbox was ever ready.
func (h *poolHealth) hopeless() bool {
	return !h.ready.Load() && h.failures.Load() >= h.workers
}

// work drains jobs with one sandbox that is recycled between mutants and
// removed when the queue is empty. A worker that cannot prepare a sandbox
// retires and leaves the queue to the others. The last one running keeps
// trying and fails the batch once no sandbox can be had at all.
func (e *executor) work(ctx context.Context, id int, ws Workspace, jobs <-chan m.Mutant, out *collector, health *poolHealth) error {
	var sb *sandbox

	retired := false

	defer func() {
		if sb != nil {
			e.cleanupSandbox(ctx, sb)
		}

		if !retired {
			health.alive.Add(-1)
		}
	}()

	for mutant := range jobs {
		if err := ctx.Err(); err != nil {
			out.add(e.skip(mutant, err))
			continue
		}

		if sb == nil {
			created, err := e.prepareSandbox(ctx, ws)
			if err != nil {
				if created != nil {
					e.cleanupSandbox(ctx, created)
				}

				if ctx.Err() != nil {
					out.add(e.skip(mutant, ctx.Err()))
					continue
				}

				out.add(e.resolve(mutant, m.Outcome{Status: m.StatusErrored, Error: (&ExecutionError{MutantID: mutant.ID, Err: err}).Error()}))
				health.failures.Add(1)

				if health.retire() {
					slog.Warn("Worker retired", "worker", id, "error", err)

					retired = true

					return nil
				}

				if health.hopeless() {
					return &BatchFatalError{Reason: "no sandbox could be prepared", Err: err}
				}

				continue
			}

			sb = created
			health.ready.Store(true)
			slog.Debug("Worker sandbox ready", "worker", id, "dir", sb.root)
		}

		resolved, healthy := e.runInSandbox(ctx, ws, sb, mutant)
		out.add(resolved)

		if !healthy {
			e.cleanupSandbox(ctx, sb)
			sb = nil
		}
	}

	return nil
}
