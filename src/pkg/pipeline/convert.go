// Package pipeline runs a handwritten page through conditioning, OCR, and
// text normalization, in memory or into a per-run output directory.
package pipeline

import (
	"context"
	"image"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/normalize"
	"notes-converter/src/pkg/ocr"
)

// Options bundles the settings of every stage.
type Options struct {
	Conditioner conditioner.Config
	Engine      ocr.EngineConfig
	Normalize   normalize.Options
	// WithTokens runs a second, token-level recognition pass for diagnostics.
	WithTokens bool
}

func DefaultOptions() Options {
	return Options{
		Conditioner: conditioner.DefaultValueConfig(),
		Engine:      ocr.DefaultEngineConfig(),
	}
}

// Result holds the output of every stage of one conversion.
type Result struct {
	Conditioned    *image.Gray
	RawText        string
	Formatted      string
	Tokens         []ocr.Token
	MeanConfidence float64
}

/*
Convert conditions img, recognizes it with engine, and formats the text.

Errors come back unchanged from the stage that produced them:
*conditioner.InvalidImageError, *conditioner.ConfigError, or whatever the
engine returned (an *ocr.EngineFailure for the Tesseract engine).
*/
func Convert(ctx context.Context, img image.Image, engine ocr.Engine, opts Options) (result Result, err error) {
	result.MeanConfidence = ocr.NoConfidence

	result.Conditioned, err = conditioner.Condition(img, opts.Conditioner)
	if err != nil {
		return result, err
	}

	result.RawText, err = engine.Recognize(ctx, result.Conditioned, opts.Engine)
	if err != nil {
		return result, err
	}

	if opts.WithTokens {
		result.Tokens, err = engine.RecognizeTokens(ctx, result.Conditioned, opts.Engine)
		if err != nil {
			return result, err
		}
		result.MeanConfidence, _ = ocr.MeanConfidence(result.Tokens)
	}

	result.Formatted = normalize.FormatText(result.RawText, opts.Normalize)
	return result, nil
}
