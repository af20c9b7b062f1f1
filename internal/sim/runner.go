package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"

	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/stats"
)

// MemoryMode selects how the runner keeps per-round results.
type MemoryMode string

const (
	// Efficient streams rounds through online moments and a histogram.
	// Memory stays constant and confidence intervals use batched means.
	Efficient MemoryMode = "efficient"
	// Accurate stores every round total for exact percentiles and
	// bootstrap confidence intervals. Memory grows with the round count.
	Accurate MemoryMode = "accurate"
)

const topValues = 5

// Params configures one simulation run. Batches (K) and BatchRounds (M)
// serve double duty: in Efficient mode the run is K batches of M rounds and
// the batch means feed the interval estimate; in Accurate mode K*M rounds
// are stored and the bootstrap draws K resamples of size M.
type Params struct {
	Batches      int64
	BatchRounds  int64
	Mode         game.SimulationMode
	Memory       MemoryMode
	Parallel     bool
	Workers      int
	SecondChance float64
	Progress     bool
}

// Runner owns the master RNG and histogram configuration for repeated runs
// against one mechanics variant.
type Runner struct {
	mech   game.Mechanics
	master *rand.Rand
	hist   *stats.Histogram
	log    *zap.Logger
}

// Option adjusts a Runner at construction.
type Option func(*Runner)

// WithSeed fixes the master seed for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(r *Runner) { r.master = rand.New(rand.NewPCG(seed, 0)) }
}

// WithLogger sets the runner's logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner builds a runner for the given mechanics. Without WithSeed the
// master RNG is seeded from the OS entropy source.
func NewRunner(m game.Mechanics, opts ...Option) *Runner {
	r := &Runner{
		mech:   m,
		master: rand.New(rand.NewPCG(game.RandomSeed(), 0)),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetCustomBins configures the payout histogram from explicit upper edges.
func (r *Runner) SetCustomBins(edges []float64) error {
	h, err := stats.NewCustomHistogram(edges)
	if err != nil {
		return err
	}
	r.hist = h
	return nil
}

// SetProgressiveBins configures the default progressive payout histogram.
func (r *Runner) SetProgressiveBins() {
	r.hist = stats.NewProgressiveHistogram()
}

// SetFixedWidthBins configures equal-width histogram bins up to max.
func (r *Runner) SetFixedWidthBins(max float64, bins int) error {
	h, err := stats.NewFixedWidthHistogram(max, bins)
	if err != nil {
		return err
	}
	r.hist = h
	return nil
}

// Run executes K batches of M rounds and reduces them into GlobalStats.
func (r *Runner) Run(p Params) (*GlobalStats, error) {
	k, m := p.Batches, p.BatchRounds
	if k <= 0 || m <= 0 {
		return nil, fmt.Errorf("run: batches %d and batch rounds %d must be positive", k, m)
	}
	if r.hist == nil {
		r.SetProgressiveBins()
	}
	if p.Memory == "" {
		p.Memory = Efficient
	}
	if p.Mode == "" {
		p.Mode = game.FullGame
	}
	if p.Mode == game.FeatureOnly {
		// Every feature-only round is a full feature session, so a tenth of
		// the rounds produces a comparable event volume.
		m /= 10
		if m < 1 {
			m = 1
		}
	}
	total := k * m

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if !p.Parallel {
		workers = 1
	}

	r.log.Info("starting simulation",
		zap.Int64("batches", k),
		zap.Int64("batch_rounds", m),
		zap.Int64("total_rounds", total),
		zap.String("mode", string(p.Mode)),
		zap.String("memory", string(p.Memory)),
		zap.Int("workers", workers))

	var totals []float64
	if p.Memory == Accurate {
		totals = make([]float64, total)
	}

	bar := pb.StartNew(int(k))
	if !p.Progress {
		bar.SetWriter(io.Discard)
	}

	final := r.simulate(k, m, workers, p, totals, bar)
	bar.Finish()

	if final.moments.Count == 0 {
		return nil, errors.New("run: no results to analyze")
	}

	gs := &GlobalStats{Mode: p.Mode, Memory: p.Memory}
	gs.fromAccum(final)
	// Base-only spread always comes from the streaming estimate; the
	// stored slice holds round totals only.
	gs.BaseStdDev = final.baseMoments.StdDev()
	if p.Memory == Accurate {
		r.analyzeAccurate(gs, totals, k, m, workers)
	} else {
		r.analyzeEfficient(gs, final, k)
	}
	return gs, nil
}

// simulate distributes batches over workers and merges their accumulators.
// Each worker draws a private PCG stream seeded from the master RNG.
// Sequential runs reproduce exactly under a fixed seed; parallel runs vary
// with batch scheduling.
func (r *Runner) simulate(k, m int64, workers int, p Params, totals []float64, bar *pb.ProgressBar) *accum {
	accums := make([]*accum, workers)
	rngs := make([]game.Source, workers)
	for w := 0; w < workers; w++ {
		accums[w] = newAccum(r.hist.Clone(), topValues)
		rngs[w] = game.NewSeeded(r.master.Uint64())
	}

	batches := make(chan int64)
	go func() {
		for b := int64(0); b < k; b++ {
			batches <- b
		}
		close(batches)
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(a *accum, rng game.Source) {
			defer wg.Done()
			for b := range batches {
				var batch stats.Moments
				for i := int64(0); i < m; i++ {
					res := game.SimulateRound(r.mech, rng, p.Mode, p.SecondChance, r.log)
					a.observe(res)
					t := res.TotalScore()
					batch.Update(t)
					if totals != nil {
						totals[b*m+i] = t
					}
				}
				a.batchMeans = append(a.batchMeans, batch.Mean())
				bar.Increment()
			}
		}(accums[w], rngs[w])
	}
	wg.Wait()

	final := accums[0]
	for _, a := range accums[1:] {
		final.merge(a)
	}
	return final
}

// analyzeEfficient derives the headline statistics from streaming moments
// and the histogram, then estimates intervals from the batch means.
func (r *Runner) analyzeEfficient(gs *GlobalStats, a *accum, k int64) {
	gs.Count = a.moments.Count
	gs.Mean = a.moments.Mean()
	gs.Variance = a.moments.SampleVariance()
	gs.StdDev = a.moments.StdDev()
	gs.Skewness = a.moments.Skewness()
	gs.Kurtosis = a.moments.ExcessKurtosis()
	gs.P95 = a.hist.Percentile(95)
	gs.P99 = a.hist.Percentile(99)
	gs.TopValues = a.top.Descending()
	gs.Intervals = batchedMeansIntervals(a.batchMeans, k, r.log)
}

// analyzeAccurate derives exact statistics from the stored round totals and
// estimates intervals by bootstrap resampling.
func (r *Runner) analyzeAccurate(gs *GlobalStats, totals []float64, k, m int64, workers int) {
	gs.Count = int64(len(totals))
	gs.Mean = stats.Mean(totals)
	gs.Variance = stats.Variance(totals)
	gs.StdDev = stats.StdDev(totals)
	gs.Skewness = stats.Skewness(totals)
	gs.Kurtosis = stats.Kurtosis(totals)

	sorted := make([]float64, len(totals))
	copy(sorted, totals)
	sort.Float64s(sorted)
	gs.P95 = stats.ValueAtPercentile(sorted, 95)
	gs.P99 = stats.ValueAtPercentile(sorted, 99)
	top := topValues
	if top > len(sorted) {
		top = len(sorted)
	}
	gs.TopValues = make([]float64, top)
	for i := 0; i < top; i++ {
		gs.TopValues[i] = sorted[len(sorted)-1-i]
	}
	gs.Intervals = r.bootstrapIntervals(sorted, k, m, workers)
}
