// Package sim runs Monte Carlo round simulations and reduces them into
// global statistics with confidence intervals for the mean payout.
package sim

import (
	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/stats"
)

// levelAgg aggregates the "levels" field of picked items. Level 1 marks a
// zero-value item, so the nonzero aggregates skip it.
type levelAgg struct {
	Sum          int64
	NonzeroSum   int64
	NonzeroCount int64
	Max          int
}

func (a *levelAgg) observe(level int) {
	a.Sum += int64(level)
	if level != 1 {
		a.NonzeroSum += int64(level)
		a.NonzeroCount++
	}
	if level > a.Max {
		a.Max = level
	}
}

func (a *levelAgg) merge(o levelAgg) {
	a.Sum += o.Sum
	a.NonzeroSum += o.NonzeroSum
	a.NonzeroCount += o.NonzeroCount
	if o.Max > a.Max {
		a.Max = o.Max
	}
}

// counters holds the plain additive tallies a worker keeps per round.
type counters struct {
	Triggered       int64
	FeatureRuns     int64
	FeaturePicks    int64
	MaxRunLength    int64
	BaseScoreSum    float64
	FeatureScoreSum float64
	NonzeroBase     int64
	NonzeroSessions int64
	NonzeroPicks    int64
	NonzeroTotal    int64
	CappedRounds    int64
	MaxBaseMult     int64
	MaxFeatureMult  int64
	BaseLevels      levelAgg
	FeatureLevels   levelAgg
	RunLevels       levelAgg
}

func (c *counters) merge(o *counters) {
	c.Triggered += o.Triggered
	c.FeatureRuns += o.FeatureRuns
	c.FeaturePicks += o.FeaturePicks
	if o.MaxRunLength > c.MaxRunLength {
		c.MaxRunLength = o.MaxRunLength
	}
	c.BaseScoreSum += o.BaseScoreSum
	c.FeatureScoreSum += o.FeatureScoreSum
	c.NonzeroBase += o.NonzeroBase
	c.NonzeroSessions += o.NonzeroSessions
	c.NonzeroPicks += o.NonzeroPicks
	c.NonzeroTotal += o.NonzeroTotal
	c.CappedRounds += o.CappedRounds
	if o.MaxBaseMult > c.MaxBaseMult {
		c.MaxBaseMult = o.MaxBaseMult
	}
	if o.MaxFeatureMult > c.MaxFeatureMult {
		c.MaxFeatureMult = o.MaxFeatureMult
	}
	c.BaseLevels.merge(o.BaseLevels)
	c.FeatureLevels.merge(o.FeatureLevels)
	c.RunLevels.merge(o.RunLevels)
}

// accum is one worker's private accumulator. Workers never share an accum,
// so observe needs no synchronization; accums are merged after the join.
type accum struct {
	moments     stats.Moments
	baseMoments stats.Moments
	hist        *stats.Histogram
	top         *stats.TopK
	batchMeans  []float64
	counters
}

func newAccum(hist *stats.Histogram, topK int) *accum {
	return &accum{hist: hist, top: stats.NewTopK(topK)}
}

func (a *accum) observe(r game.Result) {
	total := r.TotalScore()
	a.moments.Update(total)
	a.baseMoments.Update(r.BaseScore)
	a.hist.Observe(total)
	a.top.Observe(total)

	a.BaseScoreSum += r.BaseScore
	a.FeatureScoreSum += r.FeatureScore
	if r.BaseScore != 0 {
		a.NonzeroBase++
	}
	if total != 0 {
		a.NonzeroTotal++
	}
	if r.Capped {
		a.CappedRounds++
	}
	if r.MaxBaseMultiplier > a.MaxBaseMult {
		a.MaxBaseMult = r.MaxBaseMultiplier
	}
	// Level 0 means the base phase was not played this round.
	if r.BaseLevels > 0 {
		a.BaseLevels.observe(r.BaseLevels)
		a.RunLevels.observe(r.BaseLevels)
	}

	if !r.FeatureTriggered {
		return
	}
	a.Triggered++
	a.FeatureRuns++
	a.FeaturePicks += r.FeaturePicks
	if r.FeaturePicks > a.MaxRunLength {
		a.MaxRunLength = r.FeaturePicks
	}
	if r.FeatureScore != 0 {
		a.NonzeroSessions++
	}
	a.NonzeroPicks += r.FeatureNonzeroPicks
	if r.MaxFeatureMultiplier > a.MaxFeatureMult {
		a.MaxFeatureMult = r.MaxFeatureMultiplier
	}
	for _, lvl := range r.FeatureLevels {
		a.FeatureLevels.observe(lvl)
		a.RunLevels.observe(lvl)
	}
}

func (a *accum) merge(o *accum) {
	a.moments.Combine(o.moments)
	a.baseMoments.Combine(o.baseMoments)
	a.hist.Merge(o.hist)
	a.top.Merge(o.top)
	a.batchMeans = append(a.batchMeans, o.batchMeans...)
	a.counters.merge(&o.counters)
}
