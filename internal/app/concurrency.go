package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel2 runs fa and fb concurrently. The first error cancels the other
// call's context and is returned unwrapped with zero results.
func Parallel2[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = fa(gctx)
		return err
	})
	g.Go(func() (err error) {
		b, err = fb(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var (
			noA A
			noB B
		)

		return noA, noB, err
	}

	return a, b, nil
}
