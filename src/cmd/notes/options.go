package main

import (
	"github.com/tuumbleweed/xerr"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/config"
	"notes-converter/src/pkg/normalize"
	"notes-converter/src/pkg/ocr"
	"notes-converter/src/pkg/pipeline"
)

/*
initializePackages loads the config file and hands each package its section.
Section names match the package names.
*/
func initializePackages(configPath string) {
	config.InitializeConfig(configPath)
	conditioner.InitializeConfig(config.Section[conditioner.Config]("conditioner"))
	normalize.InitializeConfig(config.Section[normalize.Config]("normalize"))
	ocr.InitializeConfig(config.Section[ocr.Config]("ocr"))
}

// pipelineOptions builds pipeline options from the initialized package configs.
// pageSegMode overrides the configured mode when not empty.
func pipelineOptions(pageSegMode string, withTokens bool) pipeline.Options {
	engineConfig, err := ocr.Cfg.EngineConfig()
	if err != nil {
		xerr.NewError(err, "parse ocr options", ocr.Cfg.Options).QuitIf(xerr.ErrorTypeError)
	}
	if pageSegMode != "" {
		mode, err := ocr.ParsePageSegMode(pageSegMode)
		if err != nil {
			xerr.NewError(err, "parse -psm flag", pageSegMode).QuitIf(xerr.ErrorTypeError)
		}
		engineConfig.PageSegMode = mode
	}

	normalizeOptions, e := normalize.Cfg.Options()
	e.QuitIf(xerr.ErrorTypeError)

	return pipeline.Options{
		Conditioner: conditioner.Cfg,
		Engine:      engineConfig,
		Normalize:   normalizeOptions,
		WithTokens:  withTokens,
	}
}
