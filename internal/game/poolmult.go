package game

// poolBaseItem is a base-phase outcome for the pool-multiplier variant.
// Triggers starts the feature phase with the default pick count.
type poolBaseItem struct {
	Index    int
	Value    float64
	Triggers bool
	Levels   int
}

// poolFeatureItem is a feature-phase outcome. Draws is the number of
// multiplier draws taken from the pool mapped to this item's index;
// Continues grants DefaultTriggerPicks further feature draws.
type poolFeatureItem struct {
	Index     int
	Value     float64
	Continues bool
	Draws     int
	Levels    int
}

const poolMultiplierQueueCap = 1000

// PoolMultiplier is the pool-multiplier mechanics variant: feature values
// are scaled by a multiplier summed over weighted pool draws.
type PoolMultiplier struct {
	base       []poolBaseItem
	feature    []poolFeatureItem
	pools      [][]int64
	poolByItem map[int]int
}

func (g *PoolMultiplier) Name() string         { return "pool-multiplier" }
func (g *PoolMultiplier) QueueCap() int        { return poolMultiplierQueueCap }
func (g *PoolMultiplier) HasBaseItems() bool   { return len(g.base) > 0 }
func (g *PoolMultiplier) HasFeatureItems() bool { return len(g.feature) > 0 }

func (g *PoolMultiplier) PickBase(rng Source) BaseDraw {
	it := g.base[rng.IntN(len(g.base))]
	picks := 0
	if it.Triggers {
		picks = DefaultTriggerPicks
	}
	// Base items carry no multiplier in this variant.
	return BaseDraw{Score: it.Value, Levels: it.Levels, TriggerPicks: picks, MaxMultiplier: 1}
}

func (g *PoolMultiplier) PickFeature(rng Source) int {
	return rng.IntN(len(g.feature))
}

func (g *PoolMultiplier) ResolveFeature(idx int, rng Source) FeatureOutcome {
	it := g.feature[idx]
	mult := g.rollMultiplier(it, rng)
	extra := 0
	if it.Continues {
		extra = DefaultTriggerPicks
	}
	return FeatureOutcome{
		Contribution: it.Value * float64(mult),
		Multiplier:   mult,
		Levels:       it.Levels,
		ExtraPicks:   extra,
	}
}

// rollMultiplier sums Draws uniform picks from the item's pool. Items with
// no draws, no pool mapping, or an empty pool contribute at multiplier 1.
func (g *PoolMultiplier) rollMultiplier(it poolFeatureItem, rng Source) int64 {
	if it.Draws == 0 {
		return 1
	}
	poolID, ok := g.poolByItem[it.Index]
	if !ok || poolID < 0 || poolID >= len(g.pools) {
		return 1
	}
	pool := g.pools[poolID]
	if len(pool) == 0 {
		return 1
	}
	var total int64
	for i := 0; i < it.Draws; i++ {
		total += pool[rng.IntN(len(pool))]
	}
	return total
}
