package sim

import (
	"math"
	"testing"

	"github.com/slotlab/slotsim/internal/game"
)

// fixedMechanics pays a constant base score and triggers a fixed feature
// run, so every statistic has a known closed form.
type fixedMechanics struct {
	baseScore    float64
	triggerPicks int
	featureValue float64
}

func (f *fixedMechanics) Name() string { return "fixed" }
func (f *fixedMechanics) PickBase(_ game.Source) game.BaseDraw {
	return game.BaseDraw{Score: f.baseScore, Levels: 2, TriggerPicks: f.triggerPicks, MaxMultiplier: 1}
}
func (f *fixedMechanics) PickFeature(_ game.Source) int { return 0 }
func (f *fixedMechanics) ResolveFeature(_ int, _ game.Source) game.FeatureOutcome {
	return game.FeatureOutcome{Contribution: f.featureValue, Multiplier: 2, Levels: 2}
}
func (f *fixedMechanics) QueueCap() int         { return 1000 }
func (f *fixedMechanics) HasBaseItems() bool    { return true }
func (f *fixedMechanics) HasFeatureItems() bool { return true }

func TestRunRejectsBadCounts(t *testing.T) {
	r := NewRunner(&fixedMechanics{baseScore: 1})
	if _, err := r.Run(Params{Batches: 0, BatchRounds: 10}); err == nil {
		t.Fatal("zero batches must error")
	}
	if _, err := r.Run(Params{Batches: 10, BatchRounds: 0}); err == nil {
		t.Fatal("zero batch rounds must error")
	}
	if _, err := r.Run(Params{Batches: -1, BatchRounds: -1}); err == nil {
		t.Fatal("negative counts must error")
	}
}

func TestRunConstantPayout(t *testing.T) {
	m := &fixedMechanics{baseScore: 4, triggerPicks: 2, featureValue: 3}
	r := NewRunner(m, WithSeed(1))
	gs, err := r.Run(Params{Batches: 8, BatchRounds: 50, Mode: game.FullGame, Memory: Efficient})
	if err != nil {
		t.Fatal(err)
	}

	if gs.Count != 400 {
		t.Fatalf("count=%d, want 400", gs.Count)
	}
	// Every round pays 4 + 2*3 = 10.
	if math.Abs(gs.Mean-10) > 1e-9 {
		t.Fatalf("mean=%f, want 10", gs.Mean)
	}
	if gs.StdDev != 0 {
		t.Fatalf("stddev=%f, want 0 for constant payout", gs.StdDev)
	}
	if gs.Triggered != 400 {
		t.Fatalf("triggered=%d, want 400", gs.Triggered)
	}
	if gs.FeaturePicks != 800 {
		t.Fatalf("feature picks=%d, want 800", gs.FeaturePicks)
	}
	if gs.AvgRunLength() != 2 {
		t.Fatalf("avg run length=%f, want 2", gs.AvgRunLength())
	}
	if gs.TriggerRate() != 100 {
		t.Fatalf("trigger rate=%f, want 100", gs.TriggerRate())
	}
	if len(gs.BatchMeans) != 8 {
		t.Fatalf("batch means=%d, want 8", len(gs.BatchMeans))
	}
	if got := gs.RTP(20); math.Abs(got-50) > 1e-9 {
		t.Fatalf("rtp=%f, want 50", got)
	}
	// Constant payouts make every batch mean identical, so intervals
	// collapse onto the mean.
	for _, ci := range gs.Intervals {
		if math.Abs(ci.Lower-10) > 1e-9 || math.Abs(ci.Upper-10) > 1e-9 {
			t.Fatalf("interval %+v, want [10, 10]", ci)
		}
	}
}

func TestRunAccurateMatchesEfficientCounts(t *testing.T) {
	m := &fixedMechanics{baseScore: 2, triggerPicks: 1, featureValue: 1}

	eff, err := NewRunner(m, WithSeed(9)).Run(Params{Batches: 4, BatchRounds: 25, Memory: Efficient})
	if err != nil {
		t.Fatal(err)
	}
	acc, err := NewRunner(m, WithSeed(9)).Run(Params{Batches: 4, BatchRounds: 25, Memory: Accurate})
	if err != nil {
		t.Fatal(err)
	}

	if eff.Count != acc.Count {
		t.Fatalf("count: efficient %d vs accurate %d", eff.Count, acc.Count)
	}
	if math.Abs(eff.Mean-acc.Mean) > 1e-9 {
		t.Fatalf("mean: efficient %f vs accurate %f", eff.Mean, acc.Mean)
	}
	if math.Abs(acc.P95-3) > 1e-9 || math.Abs(acc.P99-3) > 1e-9 {
		t.Fatalf("accurate percentiles p95=%f p99=%f, want 3", acc.P95, acc.P99)
	}
	if len(acc.TopValues) != 5 || acc.TopValues[0] != 3 {
		t.Fatalf("top values=%v, want five 3s", acc.TopValues)
	}
}

func TestRunFeatureOnlyAdjustsRounds(t *testing.T) {
	m := &fixedMechanics{featureValue: 1}
	r := NewRunner(m, WithSeed(3))
	gs, err := r.Run(Params{Batches: 5, BatchRounds: 100, Mode: game.FeatureOnly, Memory: Efficient})
	if err != nil {
		t.Fatal(err)
	}
	// Feature-only runs a tenth of the configured rounds per batch.
	if gs.Count != 50 {
		t.Fatalf("count=%d, want 50", gs.Count)
	}
	if gs.Triggered != 50 {
		t.Fatalf("triggered=%d, want every feature-only round triggered", gs.Triggered)
	}
	if gs.FeaturePicks != 50*game.DefaultTriggerPicks {
		t.Fatalf("picks=%d, want %d", gs.FeaturePicks, 50*game.DefaultTriggerPicks)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	m := &fixedMechanics{baseScore: 5, triggerPicks: 3, featureValue: 2}

	seq, err := NewRunner(m, WithSeed(7)).Run(Params{Batches: 6, BatchRounds: 40, Parallel: false})
	if err != nil {
		t.Fatal(err)
	}
	par, err := NewRunner(m, WithSeed(7)).Run(Params{Batches: 6, BatchRounds: 40, Parallel: true, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}

	if seq.Count != par.Count {
		t.Fatalf("count: sequential %d vs parallel %d", seq.Count, par.Count)
	}
	if math.Abs(seq.Mean-par.Mean) > 1e-9 {
		t.Fatalf("mean: sequential %f vs parallel %f", seq.Mean, par.Mean)
	}
	if seq.FeaturePicks != par.FeaturePicks {
		t.Fatalf("picks: sequential %d vs parallel %d", seq.FeaturePicks, par.FeaturePicks)
	}
	if len(par.BatchMeans) != 6 {
		t.Fatalf("parallel batch means=%d, want 6", len(par.BatchMeans))
	}
}

func TestRunSeededReproducible(t *testing.T) {
	cfg := []byte(`{
		"bg_items": [[0, 0, 0, 1], [1, 8, 4, 2], [2, 0, 0, 1], [3, 2, 0, 2]],
		"fg_items": [[0, 1, 0, 2], [1, 0, 1, 1], [2, 5, 0, 3]]
	}`)
	m, err := game.ParseTriggerCount(cfg, game.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	p := Params{Batches: 10, BatchRounds: 500, Parallel: false}

	a, err := NewRunner(m, WithSeed(123)).Run(p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(m, WithSeed(123)).Run(p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Mean != b.Mean || a.FeaturePicks != b.FeaturePicks || a.Triggered != b.Triggered {
		t.Fatalf("same seed diverged: %f/%f, %d/%d, %d/%d",
			a.Mean, b.Mean, a.FeaturePicks, b.FeaturePicks, a.Triggered, b.Triggered)
	}
}

func TestRunLevelStatistics(t *testing.T) {
	m := &fixedMechanics{baseScore: 1, triggerPicks: 2, featureValue: 1}
	gs, err := NewRunner(m, WithSeed(2)).Run(Params{Batches: 2, BatchRounds: 10})
	if err != nil {
		t.Fatal(err)
	}
	// Base items report level 2, feature picks report level 2.
	if gs.BaseLevels.Max != 2 || gs.BaseLevels.AvgTotal != 2 {
		t.Fatalf("base levels=%+v, want max 2 avg 2", gs.BaseLevels)
	}
	if gs.FeatureLevels.Count != gs.FeaturePicks {
		t.Fatalf("feature level denominator=%d, want %d", gs.FeatureLevels.Count, gs.FeaturePicks)
	}
	if gs.RunLevels.Count != gs.Count+gs.FeaturePicks {
		t.Fatalf("run level denominator=%d, want %d", gs.RunLevels.Count, gs.Count+gs.FeaturePicks)
	}
}
