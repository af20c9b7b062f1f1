// Package report renders simulation results as a plain-text summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/slotlab/slotsim/internal/sim"
)

// Render writes the full results summary for one run.
func Render(w io.Writer, gs *sim.GlobalStats, baseBet int) {
	fmt.Fprintf(w, "\n------ Monte Carlo Simulation Results ------\n")
	fmt.Fprintf(w, "Simulations Run:   %d\n", gs.Count)
	fmt.Fprintf(w, "------------------------------------------\n")
	fmt.Fprintf(w, "Mean:              %.6f\n", gs.Mean)
	fmt.Fprintf(w, "Standard Deviation:%.6f\n", gs.StdDev)
	fmt.Fprintf(w, "Skewness:          %.6f\n", gs.Skewness)
	fmt.Fprintf(w, "Kurtosis:          %.6f\n", gs.Kurtosis)
	fmt.Fprintf(w, "RTP:               %.4f%%\n", gs.RTP(baseBet))
	fmt.Fprintf(w, "RTP Std:           %.6f\n", gs.StdDev/float64(baseBet))
	fmt.Fprintf(w, "------------------------------------------\n")
	approx := ""
	if gs.Memory == sim.Efficient {
		approx = " (approx. from histogram)"
	}
	fmt.Fprintf(w, "95th Percentile:   %.6f%s\n", gs.P95, approx)
	fmt.Fprintf(w, "99th Percentile:   %.6f%s\n", gs.P99, approx)
	if len(gs.TopValues) > 0 {
		fmt.Fprintf(w, "\nTop %d Largest Values:\n", len(gs.TopValues))
		for i, v := range gs.TopValues {
			fmt.Fprintf(w, "  %d. %.6f\n", i+1, v)
		}
	}

	renderContribution(w, gs, baseBet)
	renderTriggerStats(w, gs)
	renderMultipliers(w, gs)
	renderNonzero(w, gs)
	renderLevels(w, gs)
	renderIntervals(w, gs)
	renderHistogram(w, gs)
}

func renderContribution(w io.Writer, gs *sim.GlobalStats, baseBet int) {
	fmt.Fprintf(w, "\n------ Score Contribution Analysis ------\n")
	avgBase := gs.AvgBaseScore()
	avgFeature := gs.AvgFeatureScore()
	totalContrib := avgBase + avgFeature

	fmt.Fprintf(w, "Avg. Base Score Contribution:    %.6f\n", avgBase)
	fmt.Fprintf(w, "Base Standard Deviation:         %.6f\n", gs.BaseStdDev)
	fmt.Fprintf(w, "Avg. Base RTP:                   %.4f%%\n", avgBase/float64(baseBet)*100)
	fmt.Fprintf(w, "Base RTP Std:                    %.6f\n", gs.BaseStdDev/float64(baseBet))
	if totalContrib != 0 {
		fmt.Fprintf(w, "Base RTP Contribution:           %.4f%%\n", avgBase/totalContrib*100)
	}
	fmt.Fprintf(w, "Avg. Feature Score Contribution: %.6f\n", avgFeature)
	fmt.Fprintf(w, "Avg. Feature RTP:                %.4f%%\n", avgFeature/float64(baseBet)*100)
	if avgLen, trig := gs.AvgRunLength(), gs.TriggerRate(); avgLen > 0 && trig > 0 {
		raw := avgFeature / float64(baseBet) / avgLen / trig * 10000
		fmt.Fprintf(w, "Avg. Raw Per Round Feature RTP:  %.4f%%\n", raw)
	}
	if totalContrib != 0 {
		fmt.Fprintf(w, "Feature RTP Contribution:        %.4f%%\n", avgFeature/totalContrib*100)
	}
}

func renderTriggerStats(w io.Writer, gs *sim.GlobalStats) {
	fmt.Fprintf(w, "\n------ Feature Trigger and Run Length Statistics ------\n")
	fmt.Fprintf(w, "Feature Triggered Count:  %d (%.4f%% of rounds)\n", gs.Triggered, gs.TriggerRate())
	fmt.Fprintf(w, "Total Feature Picks:      %d (across all sessions)\n", gs.FeaturePicks)
	fmt.Fprintf(w, "Avg. Feature Run Length:  %.4f (for triggered sessions)\n", gs.AvgRunLength())
	fmt.Fprintf(w, "Max Feature Run Length:   %d\n", gs.MaxRunLength)
	if gs.CappedRounds > 0 {
		fmt.Fprintf(w, "Capped Rounds:            %d\n", gs.CappedRounds)
	}
}

func renderMultipliers(w io.Writer, gs *sim.GlobalStats) {
	fmt.Fprintf(w, "\n------ Maximum Multipliers Observed ------\n")
	fmt.Fprintf(w, "Max Base Multiplier:    %d\n", gs.MaxBaseMultiplier)
	fmt.Fprintf(w, "Max Feature Multiplier: %d\n", gs.MaxFeatureMultiplier)
}

func renderNonzero(w io.Writer, gs *sim.GlobalStats) {
	fmt.Fprintf(w, "\n------ Nonzero Value Frequencies ------\n")
	fmt.Fprintf(w, "Base Nonzero:  %d / %d rounds (%.4f%%)\n",
		gs.NonzeroBase, gs.Count, rate(gs.NonzeroBase, gs.Count))
	fmt.Fprintf(w, "Total Nonzero: %d / %d rounds (%.4f%%)\n",
		gs.NonzeroTotal, gs.Count, rate(gs.NonzeroTotal, gs.Count))

	fmt.Fprintf(w, "\nFeature Nonzero (Session-Level):\n")
	fmt.Fprintf(w, "  Count: %d / %d sessions (%.4f%%)\n",
		gs.NonzeroSessions, gs.Triggered, rate(gs.NonzeroSessions, gs.Triggered))

	fmt.Fprintf(w, "\nFeature Nonzero (Pick-Level):\n")
	fmt.Fprintf(w, "  Count: %d / %d picks (%.4f%%)\n",
		gs.NonzeroPicks, gs.FeaturePicks, rate(gs.NonzeroPicks, gs.FeaturePicks))
}

func renderLevels(w io.Writer, gs *sim.GlobalStats) {
	fmt.Fprintf(w, "\n------ Levels Statistics ------\n")
	renderLevelCategory(w, "Category 1: Base Items", "base items", gs.BaseLevels)
	renderLevelCategory(w, "Category 2: Feature Picks", "feature picks", gs.FeatureLevels)
	renderLevelCategory(w, "Category 3: Per Run (Base + Feature)", "total items", gs.RunLevels)
}

func renderLevelCategory(w io.Writer, title, unit string, ls sim.LevelStats) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "  Denominator:              %d %s\n", ls.Count, unit)
	fmt.Fprintf(w, "  Max Level:                %d\n", ls.Max)
	fmt.Fprintf(w, "  Avg Level (Total):        %.4f\n", ls.AvgTotal)
	fmt.Fprintf(w, "  Avg Level (Nonzero Value):%.4f\n", ls.AvgNonzero)
}

func renderIntervals(w io.Writer, gs *sim.GlobalStats) {
	if len(gs.Intervals) == 0 {
		return
	}
	fmt.Fprintf(w, "\n------ Confidence Intervals for the Mean ------\n")
	if gs.Memory == sim.Efficient {
		fmt.Fprintf(w, "        (Method: Batched Means)\n")
	} else {
		fmt.Fprintf(w, "        (Method: Bootstrap)\n")
	}
	for _, ci := range gs.Intervals {
		fmt.Fprintf(w, "%.1f%% Confidence Interval: [%.6f, %.6f]\n", ci.Level, ci.Lower, ci.Upper)
	}
}

func renderHistogram(w io.Writer, gs *sim.GlobalStats) {
	h := gs.Histogram
	if h == nil {
		return
	}
	fmt.Fprintf(w, "\n------ Histogram Distribution ------\n")
	fmt.Fprintf(w, "%-20s%20s%25s\n", "Bin Range", "Count", "Percentage")
	fmt.Fprintln(w, strings.Repeat("-", 65))

	if h.Underflow() > 0 {
		fmt.Fprintf(w, "%-20s%20d%24.4f%%\n", "(< 0)", h.Underflow(), rate(h.Underflow(), gs.Count))
	}
	edges := h.Edges()
	for i, c := range h.Counts() {
		if c == 0 {
			continue
		}
		var label string
		if edges[i] == 0 && edges[i+1] == 1 {
			label = "0"
		} else {
			label = fmt.Sprintf("[%g, %g)", edges[i], edges[i+1])
		}
		pct := rate(c, gs.Count)
		var pctStr string
		if pct > 0 && pct < 0.0001 {
			pctStr = fmt.Sprintf("%.2e%%", pct)
		} else {
			pctStr = fmt.Sprintf("%.4f%%", pct)
		}
		fmt.Fprintf(w, "%-20s%20d%25s\n", label, c, pctStr)
	}
	if h.Overflow() > 0 {
		label := fmt.Sprintf("[%g+)", edges[len(edges)-1])
		fmt.Fprintf(w, "%-20s%20d%24.4f%%\n", label, h.Overflow(), rate(h.Overflow(), gs.Count))
	}
	fmt.Fprintln(w, strings.Repeat("-", 47))
}

func rate(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
