package sim

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/stats"
)

var ciLevels = [3]float64{90, 95, 99}

// batchedMeansIntervals estimates t-distribution intervals for the mean
// from the per-batch means. Needs at least 2 batches.
func batchedMeansIntervals(means []float64, expected int64, log *zap.Logger) []ConfidenceInterval {
	if int64(len(means)) != expected {
		log.Warn("incomplete batches, intervals may be inaccurate",
			zap.Int64("expected", expected),
			zap.Int("collected", len(means)))
	}
	if len(means) < 2 {
		log.Warn("not enough batches for a confidence interval",
			zap.Int("batches", len(means)))
		return nil
	}
	mean := stats.Mean(means)
	stdErr := math.Sqrt(stats.Variance(means) / float64(len(means)))
	df := len(means) - 1

	out := make([]ConfidenceInterval, 0, len(ciLevels))
	for _, lvl := range ciLevels {
		t := stats.TValue(lvl, df)
		out = append(out, ConfidenceInterval{
			Level: lvl,
			Lower: mean - t*stdErr,
			Upper: mean + t*stdErr,
		})
	}
	return out
}

// bootstrapIntervals estimates percentile intervals for the mean by drawing
// k resamples of size m with replacement from the stored round totals.
// Resampling is spread over the workers, each with a private RNG stream
// seeded from the master.
func (r *Runner) bootstrapIntervals(samples []float64, k, m int64, workers int) []ConfidenceInterval {
	if len(samples) == 0 || k < 1 {
		return nil
	}
	boot := make([]float64, k)
	if int64(workers) > k {
		workers = int(k)
	}
	rngs := make([]game.Source, workers)
	for w := 0; w < workers; w++ {
		rngs[w] = game.NewSeeded(r.master.Uint64())
	}

	var wg sync.WaitGroup
	chunk := (k + int64(workers) - 1) / int64(workers)
	for w := 0; w < workers; w++ {
		lo := int64(w) * chunk
		hi := lo + chunk
		if hi > k {
			hi = k
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int64, rng game.Source) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				var sum float64
				for j := int64(0); j < m; j++ {
					sum += samples[rng.IntN(len(samples))]
				}
				boot[i] = sum / float64(m)
			}
		}(lo, hi, rngs[w])
	}
	wg.Wait()

	sort.Float64s(boot)
	return []ConfidenceInterval{
		{Level: 90, Lower: stats.ValueAtPercentile(boot, 5), Upper: stats.ValueAtPercentile(boot, 95)},
		{Level: 95, Lower: stats.ValueAtPercentile(boot, 2.5), Upper: stats.ValueAtPercentile(boot, 97.5)},
		{Level: 99, Lower: stats.ValueAtPercentile(boot, 0.5), Upper: stats.ValueAtPercentile(boot, 99.5)},
	}
}
