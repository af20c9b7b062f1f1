package game

// tcBaseItem is a base-phase outcome for the trigger-count variant.
// TriggerNum is the number of initial feature picks (0 = no feature).
type tcBaseItem struct {
	Index      int
	Value      float64
	TriggerNum int
	Levels     int
}

// tcFeatureItem is a feature-phase outcome. RetriggerNum is the number of
// additional picks granted when this item is processed.
type tcFeatureItem struct {
	Index        int
	Value        float64
	RetriggerNum int
	Levels       int
}

const triggerCountQueueCap = 2000

// TriggerCount is the trigger-count mechanics variant: item values already
// embed their multiplier, and the observed multiplier is derived from the
// item's level purely for reporting.
type TriggerCount struct {
	base    []tcBaseItem
	feature []tcFeatureItem
}

func (g *TriggerCount) Name() string          { return "trigger-count" }
func (g *TriggerCount) QueueCap() int         { return triggerCountQueueCap }
func (g *TriggerCount) HasBaseItems() bool    { return len(g.base) > 0 }
func (g *TriggerCount) HasFeatureItems() bool { return len(g.feature) > 0 }

func (g *TriggerCount) PickBase(rng Source) BaseDraw {
	it := g.base[rng.IntN(len(g.base))]
	return BaseDraw{
		Score:         it.Value,
		Levels:        it.Levels,
		TriggerPicks:  it.TriggerNum,
		MaxMultiplier: baseLevelMultiplier(it.Levels),
	}
}

func (g *TriggerCount) PickFeature(rng Source) int {
	return rng.IntN(len(g.feature))
}

func (g *TriggerCount) ResolveFeature(idx int, _ Source) FeatureOutcome {
	it := g.feature[idx]
	return FeatureOutcome{
		Contribution: it.Value,
		Multiplier:   featureLevelMultiplier(it.Levels),
		Levels:       it.Levels,
		ExtraPicks:   it.RetriggerNum,
	}
}

// baseLevelMultiplier maps a base item's level to its observed multiplier:
// {1->1, 2->2, 3->3, >=4->5}. Levels below 1 fall back to 1.
func baseLevelMultiplier(levels int) int64 {
	switch {
	case levels <= 1:
		return 1
	case levels == 2:
		return 2
	case levels == 3:
		return 3
	default:
		return 5
	}
}

// featureLevelMultiplier maps a feature item's level to its observed
// multiplier: {1->2, 2->4, 3->6, >=4->10}. Levels below 1 fall back to 2.
func featureLevelMultiplier(levels int) int64 {
	switch {
	case levels <= 1:
		return 2
	case levels == 2:
		return 4
	case levels == 3:
		return 6
	default:
		return 10
	}
}
