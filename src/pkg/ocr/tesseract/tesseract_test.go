package tesseract

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-converter/src/pkg/ocr"
)

func blankPage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 120, 60))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for x := 10; x < 50; x++ {
		for y := 20; y < 30; y++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return img
}

func TestEngineName(t *testing.T) {
	assert.Equal(t, "tesseract", NewEngine().Name())
}

func TestRecognizeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Recognize(ctx, blankPage(), ocr.DefaultEngineConfig())
	var failure *ocr.EngineFailure
	require.True(t, errors.As(err, &failure))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecognizeBlankPage(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Recognize(context.Background(), blankPage(), ocr.DefaultEngineConfig())
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	tokens, err := engine.RecognizeTokens(context.Background(), blankPage(), ocr.DefaultEngineConfig())
	require.NoError(t, err)
	for _, token := range tokens {
		assert.True(t, token.Confidence >= 0 || token.Confidence == ocr.NoConfidence)
	}
}
