package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	_ "go.uber.org/automaxprocs"

	"github.com/slotlab/slotsim/internal/config"
	"github.com/slotlab/slotsim/internal/game"
	"github.com/slotlab/slotsim/internal/report"
	"github.com/slotlab/slotsim/internal/sim"
)

const defaultBaseBet = 20

func main() {
	var (
		configPath   = flag.String("config", "", "YAML run profile file")
		profileName  = flag.String("profile", "", "named profile inside the config file")
		variant      = flag.String("variant", "", "mechanics variant: pool-multiplier or trigger-count")
		mechPath     = flag.String("mechanics", "", "mechanics JSON data file")
		batches      = flag.Int64("batches", 0, "number of batches (K)")
		batchRounds  = flag.Int64("batch-rounds", 0, "rounds per batch (M)")
		mode         = flag.String("mode", "", "simulation mode: full, feature_only or base_only")
		memory       = flag.String("memory", "", "memory mode: efficient or accurate")
		parallel     = flag.Bool("parallel", true, "run batches on all CPUs")
		workers      = flag.Int("workers", 0, "worker count, 0 = auto")
		secondChance = flag.Float64("second-chance", -1, "second chance trigger probability")
		baseBet      = flag.Int("base-bet", 0, "bet amount for RTP reporting")
		seed         = flag.Uint64("seed", 0, "master RNG seed, 0 = random")
		histFlag     = flag.String("histogram", "", "histogram: progressive, fixed:<max>:<bins> or custom:<e1,e2,...>")
		quiet        = flag.Bool("quiet", false, "suppress the progress bar")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
		cpuProfile   = flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	)
	flag.Parse()

	parallelSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "parallel" {
			parallelSet = true
		}
	})

	log := newLogger(*verbose)
	defer log.Sync()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if err := run(runArgs{
		configPath:   *configPath,
		profileName:  *profileName,
		variant:      *variant,
		mechPath:     *mechPath,
		batches:      *batches,
		batchRounds:  *batchRounds,
		mode:         *mode,
		memory:       *memory,
		parallel:     *parallel,
		parallelSet:  parallelSet,
		workers:      *workers,
		secondChance: *secondChance,
		baseBet:      *baseBet,
		seed:         *seed,
		histogram:    *histFlag,
		quiet:        *quiet,
	}, log); err != nil {
		log.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

type runArgs struct {
	configPath   string
	profileName  string
	variant      string
	mechPath     string
	batches      int64
	batchRounds  int64
	mode         string
	memory       string
	parallel     bool
	parallelSet  bool
	workers      int
	secondChance float64
	baseBet      int
	seed         uint64
	histogram    string
	quiet        bool
}

func run(a runArgs, log *zap.Logger) error {
	var prof config.Profile
	if a.configPath != "" {
		var err error
		prof, err = config.Load(a.configPath, a.profileName)
		if err != nil {
			return err
		}
	}
	if err := applyOverrides(&prof, a); err != nil {
		return err
	}

	if prof.Mechanics == nil || prof.Mechanics.Variant == "" || prof.Mechanics.Config == "" {
		return fmt.Errorf("mechanics variant and data file are required (flags or profile)")
	}

	mech, err := game.LoadMechanics(prof.Mechanics.Variant, prof.Mechanics.Config, game.LoadOptions{
		BaseValueFactor:    prof.Mechanics.BaseValueFactor,
		FeatureValueFactor: prof.Mechanics.FeatureValueFactor,
		Log:                log,
	})
	if err != nil {
		return err
	}

	opts := []sim.Option{sim.WithLogger(log)}
	if a.seed != 0 {
		opts = append(opts, sim.WithSeed(a.seed))
	}
	runner := sim.NewRunner(mech, opts...)
	if err := configureHistogram(runner, prof.Histogram); err != nil {
		return err
	}

	params := sim.Params{
		Batches:     int64Or(prof.Batches, 100),
		BatchRounds: int64Or(prof.BatchRounds, 100000),
		Mode:        game.FullGame,
		Memory:      sim.Efficient,
		Parallel:    boolOr(prof.Parallel, true),
		Workers:     intOr(prof.Workers, 0),
		Progress:    !a.quiet,
	}
	if prof.Mode != "" {
		params.Mode = game.SimulationMode(prof.Mode)
	}
	if prof.Memory != "" {
		params.Memory = sim.MemoryMode(prof.Memory)
	}
	if prof.SecondChance != nil {
		params.SecondChance = *prof.SecondChance
	}

	gs, err := runner.Run(params)
	if err != nil {
		return err
	}

	report.Render(os.Stdout, gs, intOr(prof.BaseBet, defaultBaseBet))
	return nil
}

// applyOverrides folds command-line flags over the loaded profile. Flags
// win wherever they were set.
func applyOverrides(p *config.Profile, a runArgs) error {
	if a.batches > 0 {
		p.Batches = &a.batches
	}
	if a.batchRounds > 0 {
		p.BatchRounds = &a.batchRounds
	}
	if a.mode != "" {
		p.Mode = a.mode
	}
	if a.memory != "" {
		p.Memory = a.memory
	}
	if a.parallelSet {
		p.Parallel = &a.parallel
	}
	if a.workers > 0 {
		p.Workers = &a.workers
	}
	if a.secondChance >= 0 {
		p.SecondChance = &a.secondChance
	}
	if a.baseBet > 0 {
		p.BaseBet = &a.baseBet
	}
	if a.variant != "" || a.mechPath != "" {
		if p.Mechanics == nil {
			p.Mechanics = &config.MechanicsSpec{}
		}
		if a.variant != "" {
			p.Mechanics.Variant = a.variant
		}
		if a.mechPath != "" {
			p.Mechanics.Config = a.mechPath
		}
	}
	if a.histogram != "" {
		spec, err := parseHistogramFlag(a.histogram)
		if err != nil {
			return err
		}
		p.Histogram = spec
	}
	return nil
}

// parseHistogramFlag parses "progressive", "fixed:<max>:<bins>" or
// "custom:<e1,e2,...>".
func parseHistogramFlag(s string) (*config.HistogramSpec, error) {
	parts := strings.Split(s, ":")
	switch parts[0] {
	case "progressive":
		return &config.HistogramSpec{Kind: "progressive"}, nil
	case "fixed":
		if len(parts) != 3 {
			return nil, fmt.Errorf("fixed histogram needs max and bins")
		}
		max, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("fixed histogram max: %w", err)
		}
		bins, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("fixed histogram bins: %w", err)
		}
		return &config.HistogramSpec{Kind: "fixed", Max: max, Bins: bins}, nil
	case "custom":
		if len(parts) != 2 {
			return nil, fmt.Errorf("custom histogram needs edges")
		}
		var edges []float64
		for _, f := range strings.Split(parts[1], ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("custom histogram edge %q: %w", f, err)
			}
			edges = append(edges, v)
		}
		return &config.HistogramSpec{Kind: "custom", Edges: edges}, nil
	default:
		return nil, fmt.Errorf("unknown histogram kind %q", parts[0])
	}
}

func configureHistogram(r *sim.Runner, spec *config.HistogramSpec) error {
	if spec == nil {
		r.SetProgressiveBins()
		return nil
	}
	switch spec.Kind {
	case "", "progressive":
		r.SetProgressiveBins()
		return nil
	case "fixed":
		return r.SetFixedWidthBins(spec.Max, spec.Bins)
	case "custom":
		return r.SetCustomBins(spec.Edges)
	default:
		return fmt.Errorf("unknown histogram kind %q", spec.Kind)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.Encoding = "console"
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	return log
}

func int64Or(p *int64, def int64) int64 {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}
