package spade

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/significance"
	"github.com/jtomasevic/spade/pkg/spike_train"
	"github.com/jtomasevic/spade/pkg/stability"
)

// Config holds every parameter of a detection run. Times (bin size, dither)
// are in the unit of the spike trains.
type Config struct {
	BinSize float64 `yaml:"bin_size" validate:"gt=0"`
	WinLen  int     `yaml:"win_len" validate:"gt=0"`

	Bounds pattern_mining.Bounds `yaml:"bounds"`
	// Spectrum is "#" or "3d#".
	Spectrum string `yaml:"spectrum"`
	// Strategy is "lattice" or "fpgrowth".
	Strategy string `yaml:"strategy"`

	Surrogates SurrogateConfig `yaml:"surrogates"`
	Alpha      float64         `yaml:"alpha" validate:"gt=0,lte=1"`
	Correction string          `yaml:"stat_corr"`

	Stability StabilityConfig `yaml:"stability"`
	// PSR configures pattern-set reduction; nil disables it.
	PSR *PSRConfig `yaml:"psr_param"`

	Workers int    `yaml:"workers" validate:"gte=0"`
	Seed    uint64 `yaml:"seed"`

	Log LogConfig `yaml:"log"`
}

type SurrogateConfig struct {
	N      int    `yaml:"n_surr" validate:"gte=0"`
	Method string `yaml:"method"`
	// Dither is the displacement bound of dither and shift surrogates.
	// 0 means 15 bins.
	Dither float64 `yaml:"dither" validate:"gte=0"`
}

type StabilityConfig struct {
	// NumSubsets is the number of trials per concept; 0 skips stability.
	NumSubsets int                  `yaml:"n_subsets" validate:"gte=0"`
	Thresholds stability.Thresholds `yaml:"thresholds"`
}

type PSRConfig struct {
	SubsetSlack   int     `yaml:"h" validate:"gte=0"`
	SupersetSlack int     `yaml:"k" validate:"gte=0"`
	CoveredOffset int     `yaml:"l" validate:"gte=0"`
	MaxMissing    int     `yaml:"max_missing" validate:"gte=0"`
	MinOverlap    float64 `yaml:"min_overlap" validate:"gte=0,lte=1"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig: 1-unit bins, windows of 10 bins, patterns of at least two
// spikes seen at least twice, no surrogates, FDR at 5 %, PSR with zero slack.
func DefaultConfig() Config {
	return Config{
		BinSize: 1,
		WinLen:  10,
		Bounds: pattern_mining.Bounds{
			MinSpikes:  2,
			MinSupport: 2,
			MinNeurons: 1,
		},
		Spectrum:   string(pattern_mining.Spectrum2D),
		Strategy:   "lattice",
		Surrogates: SurrogateConfig{Method: "dither_spikes"},
		Alpha:      0.05,
		Correction: string(significance.FDRBH),
		PSR:        &PSRConfig{},
		Log:        LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks field ranges, then the cross-field bounds. The first
// violation is returned as a *spike_train.ParameterError.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return parameterError(ves[0])
		}
		return err
	}
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	return c.Stability.Thresholds.Validate()
}

func parameterError(fe validator.FieldError) *spike_train.ParameterError {
	name := fe.Namespace()
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	reason := "must satisfy " + fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return spike_train.NewParameterError(name, fe.Value(), reason)
}

// ditherOrDefault resolves Dither = 0 to 15 bins.
func (c Config) ditherOrDefault() float64 {
	if c.Surrogates.Dither > 0 {
		return c.Surrogates.Dither
	}
	return significance.DefaultDitherBins * c.BinSize
}

func (c Config) mineOptions(kind pattern_mining.SpectrumKind, strategy pattern_mining.Strategy) pattern_mining.MineOptions {
	return pattern_mining.MineOptions{
		WinLen:   c.WinLen,
		Bounds:   c.Bounds,
		Spectrum: kind,
		Strategy: strategy,
	}
}
