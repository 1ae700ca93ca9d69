package conditioner

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"notes-converter/src/pkg/config"
)

// Binarization policies.
const (
	BinarizeAdaptive = "adaptive"
	BinarizeOtsu     = "otsu"
	BinarizeFixed    = "fixed"
	BinarizeNone     = "none"
)

// Output polarities. Inverted puts ink at 255 on a black page.
const (
	PolarityInverted = "inverted"
	PolarityNormal   = "normal"
)

/*
Config holds every tunable of the conditioning pipeline.

Zero-valued fields are replaced with defaults by InitializeConfig, so on/off
switches default to off and numeric knobs default to the values below.
*/
type Config struct {
	ScalePercent float64 `json:"scale_percent,omitempty"`

	ContrastEnabled bool    `json:"contrast_enabled,omitempty"`
	ContrastAlpha   float64 `json:"contrast_alpha,omitempty"`
	ContrastBeta    float64 `json:"contrast_beta,omitempty"`

	BlurDisabled bool `json:"blur_disabled,omitempty"`
	BlurKernel   int  `json:"blur_kernel,omitempty"` // 3 or 5

	Binarization      string  `json:"binarization,omitempty"`
	Polarity          string  `json:"polarity,omitempty"`
	AdaptiveBlockSize int     `json:"adaptive_block_size,omitempty"` // odd, >= 3
	AdaptiveC         float64 `json:"adaptive_c,omitempty"`
	FixedThreshold    uint8   `json:"fixed_threshold,omitempty"`

	DilateEnabled    bool `json:"dilate_enabled,omitempty"`
	DilateKernel     int  `json:"dilate_kernel,omitempty"`
	DilateIterations int  `json:"dilate_iterations,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		ScalePercent:      150,
		ContrastAlpha:     1.5,
		ContrastBeta:      0,
		BlurKernel:        5,
		Binarization:      BinarizeAdaptive,
		Polarity:          PolarityInverted,
		AdaptiveBlockSize: 11,
		AdaptiveC:         2,
		FixedThreshold:    150,
		DilateKernel:      2,
		DilateIterations:  1,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "conditioner", "not provided", "default conditioner config")
		return
	}

	defaultConfig := DefaultValueConfig()
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "conditioner", "provided", "local conditioner config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// Validate reports the first parameter that the pipeline cannot run with.
func (c Config) Validate() error {
	if c.ScalePercent <= 0 {
		return &ConfigError{Field: "scale_percent", Reason: fmt.Sprintf("must be positive, got %v", c.ScalePercent)}
	}
	if !c.BlurDisabled && c.BlurKernel != 3 && c.BlurKernel != 5 {
		return &ConfigError{Field: "blur_kernel", Reason: fmt.Sprintf("must be 3 or 5, got %d", c.BlurKernel)}
	}
	switch c.Binarization {
	case BinarizeAdaptive:
		if c.AdaptiveBlockSize < 3 || c.AdaptiveBlockSize%2 == 0 {
			return &ConfigError{Field: "adaptive_block_size", Reason: fmt.Sprintf("must be odd and >= 3, got %d", c.AdaptiveBlockSize)}
		}
	case BinarizeOtsu, BinarizeFixed, BinarizeNone:
	default:
		return &ConfigError{Field: "binarization", Reason: fmt.Sprintf("unknown policy '%s'", c.Binarization)}
	}
	if c.Polarity != PolarityInverted && c.Polarity != PolarityNormal {
		return &ConfigError{Field: "polarity", Reason: fmt.Sprintf("unknown polarity '%s'", c.Polarity)}
	}
	if c.DilateEnabled {
		if c.DilateKernel < 1 {
			return &ConfigError{Field: "dilate_kernel", Reason: fmt.Sprintf("must be >= 1, got %d", c.DilateKernel)}
		}
		if c.DilateIterations < 1 {
			return &ConfigError{Field: "dilate_iterations", Reason: fmt.Sprintf("must be >= 1, got %d", c.DilateIterations)}
		}
	}
	return nil
}

// inkValue is the intensity strokes end up with after binarization.
func (c Config) inkValue() uint8 {
	if c.Polarity == PolarityInverted {
		return 255
	}
	return 0
}
