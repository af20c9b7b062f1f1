package game

import "go.uber.org/zap"

// DefaultTriggerPicks seeds the feature queue when a trigger carries no
// explicit pick count: flag-based triggers, second chance, and FeatureOnly
// mode all start with this many picks.
const DefaultTriggerPicks = 10

// SimulateRound runs the cascading feature-queue state machine for one
// round and returns its outcome.
//
// The feature queue is a LIFO stack. Picks are i.i.d. so the order does not
// bias the statistics, but it must stay LIFO for reproducibility under a
// fixed random stream. When pushing would leave the queue above the
// variant's cap, the push is dropped and at most one warning is logged for
// the round; the round still completes (capped, not failed).
func SimulateRound(m Mechanics, rng Source, mode SimulationMode, secondChance float64, log *zap.Logger) Result {
	res := Result{MaxBaseMultiplier: 1, MaxFeatureMultiplier: 1}

	if mode == BaseOnly {
		if !m.HasBaseItems() {
			return res
		}
		bd := m.PickBase(rng)
		res.BaseScore = bd.Score
		res.BaseLevels = bd.Levels
		res.MaxBaseMultiplier = bd.MaxMultiplier
		return res
	}

	picks := 0
	if mode == FeatureOnly {
		picks = DefaultTriggerPicks
	} else {
		if !m.HasBaseItems() {
			return res
		}
		bd := m.PickBase(rng)
		res.BaseScore = bd.Score
		res.BaseLevels = bd.Levels
		res.MaxBaseMultiplier = bd.MaxMultiplier
		picks = bd.TriggerPicks
		if picks == 0 && secondChance > 0 && rng.Float64() < secondChance {
			picks = DefaultTriggerPicks
		}
	}

	if picks <= 0 {
		return res
	}
	res.FeatureTriggered = true
	if !m.HasFeatureItems() {
		return res
	}

	queueCap := m.QueueCap()
	queue := make([]int, 0, picks+50)
	for i := 0; i < picks; i++ {
		queue = append(queue, m.PickFeature(rng))
	}
	res.FeatureLevels = make([]int, 0, picks)

	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		res.FeaturePicks++

		out := m.ResolveFeature(idx, rng)
		res.FeatureLevels = append(res.FeatureLevels, out.Levels)
		if out.Multiplier > res.MaxFeatureMultiplier {
			res.MaxFeatureMultiplier = out.Multiplier
		}
		res.FeatureScore += out.Contribution
		if out.Contribution != 0 {
			res.FeatureNonzeroPicks++
		}

		if out.ExtraPicks > 0 {
			if len(queue) > queueCap {
				if !res.Capped {
					res.Capped = true
					if log != nil {
						log.Warn("feature queue cap reached, dropping further picks",
							zap.Int("cap", queueCap),
							zap.String("variant", m.Name()))
					}
				}
				continue
			}
			for i := 0; i < out.ExtraPicks; i++ {
				queue = append(queue, m.PickFeature(rng))
			}
		}
	}
	return res
}
