package generation

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Below this many samples the goroutine overhead outweighs the work
const sequentialThreshold = 256

// mapOrdered applies fn to every element of in and returns the results at
// the same indices. Large inputs are split into contiguous chunks evaluated
// concurrently; fn must not touch shared state.
func mapOrdered[T, R any](ctx context.Context, in []T, fn func(T) R) ([]R, error) {
	out := make([]R, len(in))

	if len(in) < sequentialThreshold {
		for i := range in {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = fn(in[i])
		}
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(in) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(in); start += chunk {
		end := min(start+chunk, len(in))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = fn(in[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
