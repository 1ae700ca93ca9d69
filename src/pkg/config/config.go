// Package config loads the shared JSON configuration file and hands each
// package its own section of it.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"runtime"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Config is the root of the configuration file.

The file is a JSON object keyed by section name, for example:

	{
	  "conditioner": {"scale_percent": 150, "binarization": "adaptive"},
	  "normalize": {"corrections_path": "./cfg/corrections.yaml"},
	  "echo-middleware": {"port": 8401}
	}

Sections are kept raw and decoded by the package that owns them, so this
package never imports its consumers.
*/
type Config struct {
	Path     string
	Sections map[string]json.RawMessage
}

var Cfg Config = Config{Sections: map[string]json.RawMessage{}}

/*
InitializeConfig reads the configuration file at configPath.

A missing file is not an error: every package keeps its defaults. A file that
exists but cannot be parsed stops the program.
*/
func InitializeConfig(configPath string) {
	fileBytes, readErr := os.ReadFile(configPath)
	if errors.Is(readErr, os.ErrNotExist) {
		tl.Log(tl.Info, palette.Purple, "Config file '%s' was %s, keeping %s", configPath, "not found", "default configuration")
		Cfg = Config{Path: configPath, Sections: map[string]json.RawMessage{}}
		return
	}
	if readErr != nil {
		xerr.NewError(readErr, "read config file", configPath).QuitIf(xerr.ErrorTypeError)
	}

	e := loadFromBytes(configPath, fileBytes)
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Info, palette.Green, "Loaded config file '%s' with '%d' sections", configPath, len(Cfg.Sections))
}

func loadFromBytes(configPath string, fileBytes []byte) (e *xerr.Error) {
	sections := map[string]json.RawMessage{}
	unmarshalErr := json.Unmarshal(fileBytes, &sections)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "parse config file", configPath)
		return e
	}
	Cfg = Config{Path: configPath, Sections: sections}
	return e
}

/*
Section decodes the named section into a new T.

It returns nil when the section is absent, which each package's
InitializeConfig treats as "use defaults". A malformed section stops the
program, same as a malformed file.
*/
func Section[T any](name string) *T {
	raw, ok := Cfg.Sections[name]
	if !ok || len(raw) == 0 {
		return nil
	}
	var section T
	unmarshalErr := json.Unmarshal(raw, &section)
	if unmarshalErr != nil {
		xerr.NewError(unmarshalErr, "parse config section", name).QuitIf(xerr.ErrorTypeError)
	}
	return &section
}

// CheckIfEnvVarsPresent exits if any of the named environment variables is unset or blank.
func CheckIfEnvVarsPresent(names ...string) {
	missing := false
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s env var is %s", name, "required")
			missing = true
		}
	}
	if missing {
		os.Exit(1)
	}
}

// GetPackageName returns the name of the package that called it.
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return packageFromFuncName(fn.Name())
}

// "notes-converter/src/pkg/echo-middleware.InitializeConfig" -> "echo-middleware"
func packageFromFuncName(funcName string) string {
	lastSlash := strings.LastIndex(funcName, "/")
	rest := funcName[lastSlash+1:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return rest
	}
	return rest[:dot]
}
