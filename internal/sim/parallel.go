package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
)

// SceneFactory builds the scene for ensemble member i.
type SceneFactory func(i int) (*scene.Scene, error)

// Ensemble runs independent scenes concurrently, one goroutine per member.
// Scenes share nothing, so each member gets its own Simulator.
type Ensemble struct {
	build   SceneFactory
	numRuns int
	// NewMetrics, when set, supplies fresh metrics for each member.
	NewMetrics func() []Metric
	log        *zap.Logger
}

func NewEnsemble(build SceneFactory, numRuns int, log *zap.Logger) *Ensemble {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{build: build, numRuns: numRuns, log: log}
}

// Run returns results in member order. Any member failure fails the whole
// ensemble.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sc, err := e.build(idx)
			if err != nil {
				errs[idx] = fmt.Errorf("member %d: %w", idx, err)
				return
			}

			s := New(e.log.With(zap.Int("member", idx)))
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], err = s.Run(ctx, sc, cfg)
			if err != nil {
				errs[idx] = fmt.Errorf("member %d: %w", idx, err)
			}
		}(i)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
