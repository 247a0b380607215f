package dirichlet

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sweep solves independent problems concurrently on at most parallel
// goroutines, GOMAXPROCS when parallel <= 0. Reports are returned in the
// order of problems. The first failure cancels the problems not yet started.
func Sweep(ctx context.Context, problems []Problem, cfg Config, parallel int) (reports []*Report, err error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	cfg = cfg.withDefaults()
	reports = make([]*Report, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, p := range problems {
		g.Go(func() (err error) {
			if err = gctx.Err(); err != nil {
				return
			}
			if reports[i], err = Solve(p, cfg); err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			cfg.Logger.Debug("sweep problem done",
				zap.Int("index", i), zap.String("title", p.Title),
				zap.Float64("residual", reports[i].Residual))
			return
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return
}
