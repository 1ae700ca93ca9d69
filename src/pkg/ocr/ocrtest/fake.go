// Package ocrtest provides a scripted ocr.Engine for tests.
package ocrtest

import (
	"context"
	"image"
	"sync"

	"notes-converter/src/pkg/ocr"
)

// Engine returns Text and Tokens, or Err, and records what it was asked.
type Engine struct {
	Text   string
	Tokens []ocr.Token
	Err    error

	mu         sync.Mutex
	calls      int
	lastConfig ocr.EngineConfig
	lastBounds image.Rectangle
}

func (f *Engine) Name() string { return "fake" }

func (f *Engine) Recognize(_ context.Context, img image.Image, cfg ocr.EngineConfig) (string, error) {
	f.record(img, cfg)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *Engine) RecognizeTokens(_ context.Context, img image.Image, cfg ocr.EngineConfig) ([]ocr.Token, error) {
	f.record(img, cfg)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Tokens, nil
}

func (f *Engine) record(img image.Image, cfg ocr.EngineConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastConfig = cfg
	f.lastBounds = img.Bounds()
}

// Calls counts Recognize and RecognizeTokens calls.
func (f *Engine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Engine) LastConfig() ocr.EngineConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastConfig
}

// LastBounds is the size of the last image the engine saw.
func (f *Engine) LastBounds() image.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBounds
}
