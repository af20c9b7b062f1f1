package sim

import (
	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/stats"
)

// ConfidenceInterval is a two-sided interval for the mean payout at the
// given confidence level (90, 95 or 99).
type ConfidenceInterval struct {
	Level float64
	Lower float64
	Upper float64
}

// LevelStats summarizes the "levels" field of picked items for one
// category (base items, feature picks, or both combined).
type LevelStats struct {
	Count      int64
	Max        int
	AvgTotal   float64
	AvgNonzero float64
}

func newLevelStats(a levelAgg, denom int64) LevelStats {
	ls := LevelStats{Count: denom, Max: a.Max}
	if denom > 0 {
		ls.AvgTotal = float64(a.Sum) / float64(denom)
	}
	if a.NonzeroCount > 0 {
		ls.AvgNonzero = float64(a.NonzeroSum) / float64(a.NonzeroCount)
	}
	return ls
}

// GlobalStats is the reduced outcome of a full simulation run.
type GlobalStats struct {
	Count      int64
	Mean       float64
	Variance   float64
	StdDev     float64
	BaseStdDev float64
	Skewness   float64
	Kurtosis   float64
	P95        float64
	P99        float64
	TopValues  []float64
	Intervals  []ConfidenceInterval

	Mode   game.SimulationMode
	Memory MemoryMode

	Triggered            int64
	FeatureRuns          int64
	FeaturePicks         int64
	MaxRunLength         int64
	BaseScoreSum         float64
	FeatureScoreSum      float64
	NonzeroBase          int64
	NonzeroSessions      int64
	NonzeroPicks         int64
	NonzeroTotal         int64
	CappedRounds         int64
	MaxBaseMultiplier    int64
	MaxFeatureMultiplier int64

	BaseLevels    LevelStats
	FeatureLevels LevelStats
	RunLevels     LevelStats

	Histogram  *stats.Histogram
	BatchMeans []float64
}

// TriggerRate returns the share of rounds that entered the feature phase,
// in percent.
func (g *GlobalStats) TriggerRate() float64 {
	if g.Count == 0 {
		return 0
	}
	return 100 * float64(g.Triggered) / float64(g.Count)
}

// AvgRunLength returns the mean number of feature picks per triggered
// session.
func (g *GlobalStats) AvgRunLength() float64 {
	if g.FeatureRuns == 0 {
		return 0
	}
	return float64(g.FeaturePicks) / float64(g.FeatureRuns)
}

// AvgBaseScore returns the mean base-phase contribution per round.
func (g *GlobalStats) AvgBaseScore() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.BaseScoreSum / float64(g.Count)
}

// AvgFeatureScore returns the mean feature-phase contribution per round.
func (g *GlobalStats) AvgFeatureScore() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.FeatureScoreSum / float64(g.Count)
}

// RTP returns the return-to-player percentage against the given bet.
func (g *GlobalStats) RTP(baseBet int) float64 {
	if baseBet == 0 {
		return 0
	}
	return g.Mean / float64(baseBet) * 100
}

// fromAccum copies the counter block and level summaries into GlobalStats.
func (g *GlobalStats) fromAccum(a *accum) {
	g.Triggered = a.Triggered
	g.FeatureRuns = a.FeatureRuns
	g.FeaturePicks = a.FeaturePicks
	g.MaxRunLength = a.MaxRunLength
	g.BaseScoreSum = a.BaseScoreSum
	g.FeatureScoreSum = a.FeatureScoreSum
	g.NonzeroBase = a.NonzeroBase
	g.NonzeroSessions = a.NonzeroSessions
	g.NonzeroPicks = a.NonzeroPicks
	g.NonzeroTotal = a.NonzeroTotal
	g.CappedRounds = a.CappedRounds
	g.MaxBaseMultiplier = a.MaxBaseMult
	g.MaxFeatureMultiplier = a.MaxFeatureMult
	g.BaseLevels = newLevelStats(a.BaseLevels, a.moments.Count)
	g.FeatureLevels = newLevelStats(a.FeatureLevels, a.FeaturePicks)
	g.RunLevels = newLevelStats(a.RunLevels, a.moments.Count+a.FeaturePicks)
	g.Histogram = a.hist
	g.BatchMeans = a.batchMeans
}
