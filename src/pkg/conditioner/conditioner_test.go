package conditioner

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageWithStroke draws a dark horizontal stroke on light paper.
func pageWithStroke(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 235, G: 230, B: 220, A: 255})
		}
	}
	for y := h/2 - 1; y <= h/2+1; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 40, A: 255})
		}
	}
	return img
}

func TestConditionScalesDimensions(t *testing.T) {
	tests := []struct {
		name         string
		scalePercent float64
		w, h         int
		wantW, wantH int
	}{
		{"identity", 100, 40, 30, 40, 30},
		{"one and a half", 150, 40, 30, 60, 45},
		{"rounds half up", 150, 41, 21, 62, 32},
		{"never below one pixel", 10, 3, 3, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultValueConfig()
			cfg.ScalePercent = tt.scalePercent
			out, err := Condition(pageWithStroke(tt.w, tt.h), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestConditionIsDeterministic(t *testing.T) {
	src := pageWithStroke(64, 48)
	for _, policy := range []string{BinarizeAdaptive, BinarizeOtsu, BinarizeFixed, BinarizeNone} {
		t.Run(policy, func(t *testing.T) {
			cfg := DefaultValueConfig()
			cfg.Binarization = policy
			cfg.ContrastEnabled = true
			cfg.DilateEnabled = true

			first, err := Condition(src, cfg)
			require.NoError(t, err)
			second, err := Condition(src, cfg)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(first.Pix, second.Pix))
		})
	}
}

func TestConditionProducesBinaryOutput(t *testing.T) {
	for _, policy := range []string{BinarizeAdaptive, BinarizeOtsu, BinarizeFixed} {
		t.Run(policy, func(t *testing.T) {
			cfg := DefaultValueConfig()
			cfg.Binarization = policy
			out, err := Condition(pageWithStroke(64, 48), cfg)
			require.NoError(t, err)
			for _, v := range out.Pix {
				if v != 0 && v != 255 {
					t.Fatalf("pixel value %d is not binary", v)
				}
			}
		})
	}
}

func TestConditionPolarity(t *testing.T) {
	src := pageWithStroke(80, 40)

	cfg := DefaultValueConfig()
	cfg.Binarization = BinarizeOtsu
	cfg.ScalePercent = 100

	cfg.Polarity = PolarityInverted
	inverted, err := Condition(src, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), inverted.GrayAt(40, 20).Y, "stroke is white when inverted")
	assert.Equal(t, uint8(0), inverted.GrayAt(2, 2).Y, "paper is black when inverted")

	cfg.Polarity = PolarityNormal
	normal, err := Condition(src, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), normal.GrayAt(40, 20).Y)
	assert.Equal(t, uint8(255), normal.GrayAt(2, 2).Y)
}

func TestConditionRejectsInvalidImages(t *testing.T) {
	var invalid *InvalidImageError

	_, err := Condition(nil, DefaultValueConfig())
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = Condition(image.NewRGBA(image.Rect(0, 0, 0, 10)), DefaultValueConfig())
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestConditionRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"even block size", func(c *Config) { c.AdaptiveBlockSize = 10 }, "adaptive_block_size"},
		{"zero scale", func(c *Config) { c.ScalePercent = 0 }, "scale_percent"},
		{"unknown policy", func(c *Config) { c.Binarization = "sauvola" }, "binarization"},
		{"unknown polarity", func(c *Config) { c.Polarity = "sideways" }, "polarity"},
		{"blur kernel", func(c *Config) { c.BlurKernel = 7 }, "blur_kernel"},
		{"dilate iterations", func(c *Config) { c.DilateEnabled = true; c.DilateIterations = 0 }, "dilate_iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultValueConfig()
			tt.mutate(&cfg)
			_, err := Condition(pageWithStroke(10, 10), cfg)
			var configErr *ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestOtsuSplitsBimodalHistogram(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range gray.Pix {
		if i < 50 {
			gray.Pix[i] = 30
		} else {
			gray.Pix[i] = 200
		}
	}
	threshold := Otsu(gray)
	assert.GreaterOrEqual(t, threshold, uint8(30))
	assert.Less(t, threshold, uint8(200))
}

func TestAdaptiveThresholdToleratesLightingGradient(t *testing.T) {
	// Paper brightens left to right; a dark dot sits in both halves.
	gray := image.NewGray(image.Rect(0, 0, 60, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(80 + x*2)})
		}
	}
	gray.SetGray(10, 10, color.Gray{Y: 40})
	gray.SetGray(50, 10, color.Gray{Y: 150})

	out := AdaptiveThreshold(gray, 11, 2, PolarityNormal)
	assert.Equal(t, uint8(0), out.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(0), out.GrayAt(50, 10).Y)
	assert.Equal(t, uint8(255), out.GrayAt(30, 3).Y)

	// A single global cut cannot keep both dots without swallowing the dark side.
	global := Threshold(gray, Otsu(gray), PolarityNormal)
	assert.Equal(t, uint8(0), global.GrayAt(2, 3).Y)
}

func TestThickenGrowsInk(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 5, 5))
	gray.SetGray(2, 2, color.Gray{Y: 255})

	out := Thicken(gray, 2, 1, 255)
	for _, p := range []image.Point{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		assert.Equal(t, uint8(255), out.GrayAt(p.X, p.Y).Y, "pixel %v", p)
	}
	assert.Equal(t, uint8(0), out.GrayAt(1, 1).Y)

	// Normal polarity: ink is black, so black grows.
	paper := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range paper.Pix {
		paper.Pix[i] = 255
	}
	paper.SetGray(2, 2, color.Gray{Y: 0})
	grown := Thicken(paper, 2, 2, 0)
	assert.Equal(t, uint8(0), grown.GrayAt(4, 4).Y)
	assert.Equal(t, uint8(255), grown.GrayAt(1, 1).Y)
}

func TestConditionFileWritesPNG(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "page.png")
	destinationPath := filepath.Join(dir, "clean.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pageWithStroke(20, 20)))
	require.NoError(t, os.WriteFile(sourcePath, buf.Bytes(), 0o644))

	out, err := ConditionFile(sourcePath, destinationPath, DefaultValueConfig())
	require.NoError(t, err)
	assert.Equal(t, 30, out.Bounds().Dx())

	_, err = ConditionFile(filepath.Join(dir, "missing.png"), destinationPath, DefaultValueConfig())
	var invalid *InvalidImageError
	assert.True(t, errors.As(err, &invalid))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	var invalid *InvalidImageError
	assert.True(t, errors.As(err, &invalid))
}

func TestThresholdPolarityAndSubImage(t *testing.T) {
	full := image.NewGray(image.Rect(0, 0, 4, 2))
	copy(full.Pix, []uint8{10, 100, 151, 250, 150, 149, 200, 0})
	sub := full.SubImage(image.Rect(1, 0, 4, 2)).(*image.Gray)

	normal := Threshold(sub, 150, PolarityNormal)
	assert.Equal(t, image.Rect(0, 0, 3, 2), normal.Bounds())
	assert.Equal(t, []uint8{0, 255, 255, 0, 255, 0}, normal.Pix)

	inverted := Threshold(sub, 150, PolarityInverted)
	assert.Equal(t, []uint8{255, 0, 0, 255, 0, 255}, inverted.Pix)
}

func TestStretchContrastSaturates(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	copy(gray.Pix, []uint8{0, 100, 200})

	out := stretchContrast(gray, 1.5, -10)
	assert.Equal(t, []uint8{10, 140, 255}, out.Pix)
	assert.Equal(t, []uint8{245, 115, 0}, invert(out).Pix)
}
