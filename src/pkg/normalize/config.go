package normalize

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"notes-converter/src/pkg/config"
)

type Config struct {
	MinHeadingLength int    `json:"min_heading_length,omitempty"`
	CorrectionsPath  string `json:"corrections_path,omitempty"`
	CorrectSpelling  bool   `json:"correct_spelling,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		MinHeadingLength: DefaultMinHeadingLength,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "normalize", "not provided", "default normalize config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "normalize", "provided", "local normalize config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

/*
Options turns the configuration into FormatText options, loading the
corrections file when one is configured.
*/
func (c Config) Options() (opts Options, e *xerr.Error) {
	opts = Options{
		CorrectSpelling:  c.CorrectSpelling,
		MinHeadingLength: c.MinHeadingLength,
	}
	if c.CorrectSpelling {
		tl.Log(tl.Info1, palette.Yellow, "%s is %s and has no effect", "correct_spelling", "not yet implemented")
	}
	if c.CorrectionsPath == "" {
		return opts, e
	}
	opts.Corrections, e = LoadCorrections(c.CorrectionsPath)
	return opts, e
}
