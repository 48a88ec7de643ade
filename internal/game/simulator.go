package game

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pefman/stfc-combat/internal/engine"
	"github.com/pefman/stfc-combat/internal/models"
)

// Simulator runs Monte Carlo batches of independent combats.
type Simulator struct {
	// Workers bounds concurrent combats; <= 0 uses GOMAXPROCS.
	Workers int
	// Seed fixes the random streams. 0 picks a time-based seed.
	Seed int64
	// Logger may be nil.
	Logger *zap.Logger
	// Progress, if set, is called after each finished iteration. It may be
	// called from several goroutines at once.
	Progress func(done, total int)
}

// Run simulates iterations combats of data and averages their outcomes.
// It never returns an error: invalid data, a failing ability, a panic or a
// cancelled context all yield a zero outcome with Iterations 0 and the
// error text as ExampleLog. The example log is always iteration 0's.
func (sim *Simulator) Run(ctx context.Context, data models.CombatData, iterations int) (res models.CombatSimulatorResult) {
	log := sim.Logger
	if log == nil {
		log = zap.NewNop()
	}
	begin := time.Now()
	fail := func(err error) models.CombatSimulatorResult {
		log.Warn("simulation failed", zap.Int("iterations", iterations), zap.Error(err))
		return models.CombatSimulatorResult{ExampleLog: err.Error()}
	}
	defer func() {
		if r := recover(); r != nil {
			res = fail(fmt.Errorf("simulation panic: %v", r))
		}
	}()

	scenario, err := Load(data)
	if err != nil {
		return fail(err)
	}
	if iterations <= 0 {
		return models.CombatSimulatorResult{SimulationDuration: elapsedMS(begin)}
	}

	seed := sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := sim.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log.Info("simulation started",
		zap.Int("iterations", iterations),
		zap.Int("workers", workers),
		zap.Int64("seed", seed))

	outcomes := make([]models.CombatOutcome, iterations)
	var exampleLog string
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < iterations; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("iteration %d panic: %v", i, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			combat := scenario.NewCombat(engine.NewSeeded(engine.IterationSeed(seed, i)), i == 0)
			out, err := combat.Run()
			if err != nil {
				return fmt.Errorf("iteration %d: %w", i, err)
			}
			outcomes[i] = out
			if i == 0 {
				exampleLog = combat.Log()
			}
			n := done.Add(1)
			if sim.Progress != nil {
				sim.Progress(int(n), iterations)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	var avg models.CombatOutcome
	w := 1 / float64(iterations)
	for _, o := range outcomes {
		avg.AddScaled(o, w)
	}
	res = models.CombatSimulatorResult{
		SimulationDuration: elapsedMS(begin),
		Iterations:         iterations,
		AverageOutcome:     avg,
		ExampleLog:         exampleLog,
	}
	log.Info("simulation finished",
		zap.Int("iterations", iterations),
		zap.Float64("duration_ms", res.SimulationDuration),
		zap.Float64("attacker_win", avg.AttackerWin))
	return res
}

func elapsedMS(begin time.Time) float64 {
	return float64(time.Since(begin).Microseconds()) / 1000
}
