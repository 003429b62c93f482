package screen

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Join runs fetchers in parallel and fails as a whole if any of them
// fails. The shared context is cancelled on the first failure.
func Join(ctx context.Context, fetchers ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fetch := range fetchers {
		fetch := fetch
		g.Go(func() error {
			return fetch(ctx)
		})
	}
	return g.Wait()
}
