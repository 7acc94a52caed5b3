package evaluate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelCollect processes items with a bounded worker pool, preserving
// input order in the returned slice. Assets are evaluated independently, so
// workers share no mutable state; the only error source is context
// cancellation.
func parallelCollect[T any, R any](
	ctx context.Context,
	items []T,
	workers int,
	process func(ctx context.Context, item T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeWorkers(workers, len(items)))

	out := make([]R, len(items))
	for idx := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := process(ctx, items[idx])
			if err != nil {
				return err
			}
			out[idx] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeWorkers ensures worker count is between 1 and item count.
func normalizeWorkers(workers, itemCount int) int {
	if workers < 1 {
		workers = 1
	}
	if workers > itemCount {
		workers = itemCount
	}
	return workers
}
