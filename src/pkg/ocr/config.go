package ocr

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"notes-converter/src/pkg/config"
)

// Config is the "ocr" section of the configuration file.
type Config struct {
	Options string `json:"options,omitempty"` // e.g. "--oem 3 --psm 6 -l eng"
}

func DefaultValueConfig() Config {
	return Config{
		Options: DefaultEngineConfig().String(),
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "ocr", "not provided", "default ocr config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "ocr", "provided", "local ocr config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// EngineConfig parses the configured option string.
func (c Config) EngineConfig() (EngineConfig, error) {
	return ParseConfigString(c.Options)
}
