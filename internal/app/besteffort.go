package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"dompet/internal/core"
	applog "dompet/internal/log"
)

// BestEffort records the outcome of a secondary refresh chained after a
// mutation. Its failure never fails the mutation.
type BestEffort struct {
	Name string
	Err  error
}

// MutationResult is what Submit and Delete report on success.
type MutationResult struct {
	// Transaction is the record after the mutation: the API echo when one
	// was sent, otherwise the submitted fields. Nil for deletions and for
	// creations without an echo.
	Transaction *core.Transaction
	Cancelled   bool
	Resyncs     []BestEffort
}

// Failed lists the re-syncs that did not succeed.
func (r MutationResult) Failed() []BestEffort {
	var out []BestEffort
	for _, b := range r.Resyncs {
		if b.Err != nil {
			out = append(out, b)
		}
	}
	return out
}

type resync struct {
	name string
	run  func(ctx context.Context) error
}

// runBestEffort runs every job concurrently, waits for all of them and
// logs failures. It never returns an error.
func runBestEffort(ctx context.Context, logger *applog.Logger, jobs ...resync) []BestEffort {
	out := make([]BestEffort, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		out[i].Name = job.name
		g.Go(func() error {
			out[i].Err = job.run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	for _, b := range out {
		if b.Err != nil {
			logger.WarnContext(ctx, "Re-sync failed", applog.FieldStep, b.Name, applog.FieldError, b.Err.Error())
		}
	}
	return out
}
