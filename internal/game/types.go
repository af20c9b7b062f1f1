package game

// SimulationMode selects which phases of a round are played.
type SimulationMode string

const (
	// FullGame plays the base phase and, when triggered, the feature phase.
	FullGame SimulationMode = "full"
	// FeatureOnly skips the base phase and always starts the feature phase
	// with DefaultTriggerPicks. Callers run ~1/10th the rounds to keep the
	// feature-event volume comparable to FullGame.
	FeatureOnly SimulationMode = "feature_only"
	// BaseOnly plays the base phase and never enters the feature phase.
	BaseOnly SimulationMode = "base_only"
)

// BaseDraw is the outcome of one base-phase pick.
type BaseDraw struct {
	Score         float64
	Levels        int
	TriggerPicks  int   // initial feature picks granted; 0 = no trigger
	MaxMultiplier int64 // observed multiplier, reporting only
}

// FeatureOutcome is the resolved contribution of one popped feature item.
type FeatureOutcome struct {
	Contribution float64
	Multiplier   int64
	Levels       int
	ExtraPicks   int // additional feature draws granted by this pick
}

// Mechanics is the contract a game variant implements. The data behind a
// Mechanics value is immutable after load and safe for concurrent reads.
type Mechanics interface {
	Name() string
	// PickBase draws one base item uniformly.
	PickBase(rng Source) BaseDraw
	// PickFeature draws one feature item uniformly and returns its index.
	// The index is what the round's LIFO queue holds; contribution is
	// resolved when the item is popped.
	PickFeature(rng Source) int
	// ResolveFeature resolves the monetary contribution of the feature item
	// at idx. The pool-multiplier variant draws multipliers here, so this
	// consumes rng.
	ResolveFeature(idx int, rng Source) FeatureOutcome
	// QueueCap is the safety limit on the feature queue size.
	QueueCap() int
	HasBaseItems() bool
	HasFeatureItems() bool
}

// Result is the outcome of one simulated round. Created fresh per round and
// immutable once returned.
type Result struct {
	BaseScore            float64
	FeatureScore         float64
	FeaturePicks         int64
	FeatureTriggered     bool
	FeatureNonzeroPicks  int64
	MaxBaseMultiplier    int64
	MaxFeatureMultiplier int64
	BaseLevels           int
	FeatureLevels        []int
	// Capped reports that the feature queue hit the variant's safety cap and
	// further growth was dropped.
	Capped bool
}

// TotalScore is the round's payout: base plus feature.
func (r Result) TotalScore() float64 { return r.BaseScore + r.FeatureScore }
