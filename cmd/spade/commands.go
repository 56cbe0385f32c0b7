package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jtomasevic/spade/pkg/logging"
	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/significance"
	"github.com/jtomasevic/spade/pkg/spade"
	"github.com/jtomasevic/spade/pkg/spike_train"
)

type flags struct {
	input      string
	configPath string
	binSize    string
	winLen     int
	surrogates int
	subsets    int
	seed       uint64
	workers    int
	spectrum   string
	format     string
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "spade",
		Short:         "Detect repeating spatio-temporal spike patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.input, "input", "i", "", "spike train session (YAML)")
	pf.StringVarP(&f.configPath, "config", "c", "", "detection config (YAML), defaults otherwise")
	pf.StringVar(&f.binSize, "bin-size", "", "bin size, e.g. 1ms or 0.5 (session unit)")
	pf.IntVar(&f.winLen, "win-len", 0, "window length in bins")
	pf.Uint64Var(&f.seed, "seed", 0, "random seed")
	pf.IntVar(&f.workers, "workers", 0, "parallel workers, 0 = all CPUs")
	pf.StringVar(&f.spectrum, "spectrum", "", `spectrum kind, "#" or "3d#"`)
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	_ = root.MarkPersistentFlagRequired("input")

	detect := &cobra.Command{
		Use:   "detect",
		Short: "Mine, test and reduce patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd, f)
		},
	}
	detect.Flags().IntVarP(&f.surrogates, "surrogates", "n", 0, "number of surrogate trials")
	detect.Flags().IntVar(&f.subsets, "subsets", 0, "stability subsets per pattern")
	detect.Flags().StringVar(&f.format, "format", "text", "output format: text or yaml")
	detect.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print patterns and warnings as they are reported")

	spectrum := &cobra.Command{
		Use:   "spectrum",
		Short: "Print the pattern spectrum of a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSpectrum(cmd, f)
		},
	}

	root.AddCommand(detect, spectrum)
	return root
}

// load reads the session and the config, then applies the flags that were set.
func load(cmd *cobra.Command, f *flags) (*spike_train.Session, spade.Config, error) {
	session, err := spike_train.LoadSession(f.input)
	if err != nil {
		return nil, spade.Config{}, err
	}
	cfg := spade.DefaultConfig()
	if f.configPath != "" {
		if cfg, err = spade.LoadConfig(f.configPath); err != nil {
			return nil, cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("bin-size") {
		if cfg.BinSize, err = spike_train.ParseQuantity(f.binSize, session.Unit); err != nil {
			return nil, cfg, err
		}
	}
	if changed("win-len") {
		cfg.WinLen = f.winLen
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("spectrum") {
		cfg.Spectrum = f.spectrum
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("surrogates") {
		cfg.Surrogates.N = f.surrogates
	}
	if changed("subsets") {
		cfg.Stability.NumSubsets = f.subsets
	}
	return session, cfg, cfg.Validate()
}

func newLogger(cfg spade.Config, w io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, Output: w, JSON: cfg.Log.JSON, Service: "spade"}), nil
}

func runDetect(cmd *cobra.Command, f *flags) error {
	if f.format != "text" && f.format != "yaml" {
		return fmt.Errorf("unknown format %q", f.format)
	}
	session, cfg, err := load(cmd, f)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := []spade.Option{spade.WithLogger(logger)}
	if f.verbose {
		opts = append(opts, spade.WithListener(spade.NewPrintListener(cmd.ErrOrStderr())))
	}
	res, err := spade.DetectPatterns(cmd.Context(), session.Trains, cfg, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.format == "yaml" {
		return writeYAML(out, res)
	}
	spade.PrintReport(out, res)
	return nil
}

func runSpectrum(cmd *cobra.Command, f *flags) error {
	session, cfg, err := load(cmd, f)
	if err != nil {
		return err
	}
	kind, err := pattern_mining.ParseSpectrumKind(cfg.Spectrum)
	if err != nil {
		return err
	}
	strategy, err := pattern_mining.StrategyByName(cfg.Strategy)
	if err != nil {
		return err
	}
	spectrum, err := pattern_mining.MineSpectrum(session.Trains, cfg.BinSize, pattern_mining.MineOptions{
		WinLen:   cfg.WinLen,
		Bounds:   cfg.Bounds,
		Spectrum: kind,
		Strategy: strategy,
	})
	if err != nil {
		return err
	}
	spade.PrintSpectrum(cmd.OutOrStdout(), spectrum, nil)
	return nil
}

type report struct {
	RunID    string                         `yaml:"run_id"`
	Warnings []spade.Warning                `yaml:"warnings,omitempty"`
	Spectrum []pattern_mining.SpectrumEntry `yaml:"spectrum"`
	PValues  []significance.PValue          `yaml:"pvalues"`
	Patterns []spade.Pattern                `yaml:"patterns"`
}

func writeYAML(w io.Writer, res *spade.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(report{
		RunID:    res.RunID.String(),
		Warnings: res.Warnings,
		Spectrum: res.Spectrum.Entries(),
		PValues:  res.PValues.Entries(),
		Patterns: res.Patterns,
	})
}
