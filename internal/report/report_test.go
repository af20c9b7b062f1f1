package report

import (
	"strings"
	"testing"

	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/sim"
)

type flatMechanics struct{}

func (flatMechanics) Name() string { return "flat" }
func (flatMechanics) PickBase(_ game.Source) game.BaseDraw {
	return game.BaseDraw{Score: 10, Levels: 2, TriggerPicks: 1, MaxMultiplier: 1}
}
func (flatMechanics) PickFeature(_ game.Source) int { return 0 }
func (flatMechanics) ResolveFeature(_ int, _ game.Source) game.FeatureOutcome {
	return game.FeatureOutcome{Contribution: 10, Multiplier: 2, Levels: 2}
}
func (flatMechanics) QueueCap() int         { return 1000 }
func (flatMechanics) HasBaseItems() bool    { return true }
func (flatMechanics) HasFeatureItems() bool { return true }

func TestRenderSections(t *testing.T) {
	gs, err := sim.NewRunner(flatMechanics{}, sim.WithSeed(1)).
		Run(sim.Params{Batches: 4, BatchRounds: 25, Memory: sim.Efficient})
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	Render(&sb, gs, 20)
	out := sb.String()

	for _, want := range []string{
		"Monte Carlo Simulation Results",
		"Simulations Run:   100",
		"Mean:              20.000000",
		"RTP:               100.0000%",
		"Score Contribution Analysis",
		"Feature Trigger and Run Length Statistics",
		"Maximum Multipliers Observed",
		"Nonzero Value Frequencies",
		"Levels Statistics",
		"Confidence Intervals for the Mean",
		"(Method: Batched Means)",
		"Histogram Distribution",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q\n%s", want, out)
		}
	}

	// Every payout is 20, so the histogram shows one populated bin.
	if !strings.Contains(out, "[15, 20)") && !strings.Contains(out, "[20, 25)") {
		t.Fatalf("expected a bin around 20:\n%s", out)
	}
}

func TestRenderBootstrapTag(t *testing.T) {
	gs, err := sim.NewRunner(flatMechanics{}, sim.WithSeed(1)).
		Run(sim.Params{Batches: 4, BatchRounds: 25, Memory: sim.Accurate})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	Render(&sb, gs, 20)
	if !strings.Contains(sb.String(), "(Method: Bootstrap)") {
		t.Fatalf("accurate mode must report the bootstrap method:\n%s", sb.String())
	}
}
