/*
Package conditioner turns a photographed or scanned handwritten page into a
single-channel image that OCR engines read more reliably.

The pipeline runs in a fixed order, each stage feeding the next:

 1. Upscale by Config.ScalePercent with cubic (Catmull-Rom) interpolation.
 2. Collapse to luminance.
 3. Optional linear contrast stretch.
 4. Blur with a small fixed Gaussian kernel.
 5. Binarize with the adaptive, Otsu, or fixed policy (or skip).
 6. Optional dilation to reconnect thin strokes.

Condition is deterministic: the same image and Config always produce the same
pixels.
*/
package conditioner

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"notes-converter/src/pkg/util"
)

// 5x5 and 3x3 binomial approximations of a Gaussian.
var (
	gaussian5x5 = [25]float64{
		1, 4, 6, 4, 1,
		4, 16, 24, 16, 4,
		6, 24, 36, 24, 6,
		4, 16, 24, 16, 4,
		1, 4, 6, 4, 1,
	}
	gaussian3x3 = [9]float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	}
)

/*
Condition runs the full conditioning pipeline on img.

It returns *InvalidImageError for a nil or zero-area image and *ConfigError
when cfg cannot be run.
*/
func Condition(img image.Image, cfg Config) (*image.Gray, error) {
	if img == nil {
		return nil, &InvalidImageError{Reason: "no image"}
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, &InvalidImageError{Reason: "zero-area image " + bounds.String()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flattened := flattenOnWhite(img)
	upscaled := upscale(flattened, cfg.ScalePercent)
	gray := toGray(imaging.Grayscale(upscaled))

	if cfg.ContrastEnabled {
		gray = stretchContrast(gray, cfg.ContrastAlpha, cfg.ContrastBeta)
	}
	if !cfg.BlurDisabled {
		gray = blur(gray, cfg.BlurKernel)
	}

	var out *image.Gray
	switch cfg.Binarization {
	case BinarizeAdaptive:
		out = AdaptiveThreshold(gray, cfg.AdaptiveBlockSize, cfg.AdaptiveC, cfg.Polarity)
	case BinarizeOtsu:
		out = Threshold(gray, Otsu(gray), cfg.Polarity)
	case BinarizeFixed:
		out = Threshold(gray, cfg.FixedThreshold, cfg.Polarity)
	case BinarizeNone:
		out = gray
		if cfg.Polarity == PolarityInverted {
			out = invert(gray)
		}
	}

	if cfg.DilateEnabled {
		out = Thicken(out, cfg.DilateKernel, cfg.DilateIterations, cfg.inkValue())
	}
	return out, nil
}

// ScaledSize returns the dimensions Condition produces for a w x h input.
func ScaledSize(w, h int, scalePercent float64) (int, int) {
	scale := scalePercent / 100
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	return max(sw, 1), max(sh, 1)
}

// Transparent regions would otherwise turn black once alpha is dropped.
func flattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

func upscale(img *image.NRGBA, scalePercent float64) *image.NRGBA {
	bounds := img.Bounds()
	w, h := ScaledSize(bounds.Dx(), bounds.Dy(), scalePercent)
	if w == bounds.Dx() && h == bounds.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}

// toGray keeps the red channel, which equals luminance once imaging.Grayscale ran.
func toGray(img *image.NRGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		srcRow := img.Pix[y*img.Stride : y*img.Stride+bounds.Dx()*4]
		dstRow := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for x := range dstRow {
			dstRow[x] = srcRow[x*4]
		}
	}
	return gray
}

// stretchContrast applies v' = |alpha*v + beta|, rounded and saturated to 8 bits.
func stretchContrast(gray *image.Gray, alpha, beta float64) *image.Gray {
	var lut [256]uint8
	for v := range lut {
		scaled := math.Abs(alpha*float64(v) + beta)
		lut[v] = util.RoundToByte(scaled)
	}
	return mapLevels(gray, &lut)
}

func blur(gray *image.Gray, kernel int) *image.Gray {
	options := &imaging.ConvolveOptions{Normalize: true}
	if kernel == 3 {
		return toGray(imaging.Convolve3x3(gray, gaussian3x3, options))
	}
	return toGray(imaging.Convolve5x5(gray, gaussian5x5, options))
}

func invert(gray *image.Gray) *image.Gray {
	var lut [256]uint8
	for v := range lut {
		lut[v] = 255 - uint8(v)
	}
	return mapLevels(gray, &lut)
}
