/*
Package ocr describes the recognition engine the note pipeline depends on.

It holds the engine contract, its configuration, and the per-token result
type. The Tesseract-backed implementation lives in ocr/tesseract so that
callers and tests can depend on this package without linking Tesseract.
*/
package ocr

import (
	"context"
	"fmt"
	"image"
)

// PageSegMode mirrors Tesseract's page segmentation modes.
type PageSegMode int

const (
	PSMAuto       PageSegMode = 3
	PSMSingleCol  PageSegMode = 4
	PSMBlock      PageSegMode = 6
	PSMSingleLine PageSegMode = 7
	PSMSingleWord PageSegMode = 8
	PSMSparseText PageSegMode = 11
	PSMRawLine    PageSegMode = 13
)

// EngineMode mirrors Tesseract's OCR engine modes.
type EngineMode int

const (
	OEMLegacy        EngineMode = 0
	OEMLSTM          EngineMode = 1
	OEMLegacyAndLSTM EngineMode = 2
	OEMDefault       EngineMode = 3
)

// NoConfidence marks a token the engine did not score.
const NoConfidence = -1.0

// Token is one recognized word with its confidence on a 0-100 scale.
type Token struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Box        image.Rectangle `json:"box"`
}

// HasConfidence reports whether the engine scored the token.
func (t Token) HasConfidence() bool { return t.Confidence >= 0 }

// Engine recognizes text in a conditioned page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, cfg EngineConfig) (string, error)
	RecognizeTokens(ctx context.Context, img image.Image, cfg EngineConfig) ([]Token, error)
}

/*
EngineFailure wraps anything that went wrong inside the engine: unsupported
input, missing language data, an unavailable engine. Callers get it as is;
nothing in this module retries or falls back.
*/
type EngineFailure struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineFailure) Error() string {
	return fmt.Sprintf("%s engine failure: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineFailure) Unwrap() error { return e.Err }

// MeanConfidence averages scored tokens. ok is false when none were scored.
func MeanConfidence(tokens []Token) (mean float64, ok bool) {
	var sum float64
	var scored int
	for _, token := range tokens {
		if !token.HasConfidence() {
			continue
		}
		sum += token.Confidence
		scored++
	}
	if scored == 0 {
		return NoConfidence, false
	}
	return sum / float64(scored), true
}
