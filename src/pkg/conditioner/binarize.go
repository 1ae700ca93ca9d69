package conditioner

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// levels maps "brighter than the threshold" to the output value for a polarity.
func levels(polarity string) (bright, dark uint8) {
	if polarity == PolarityInverted {
		return 0, 255
	}
	return 255, 0
}

// Threshold binarizes gray with a single global cut: pixels above t are paper.
func Threshold(gray *image.Gray, t uint8, polarity string) *image.Gray {
	bright, dark := levels(polarity)
	var lut [256]uint8
	for v := range lut {
		lut[v] = dark
		if uint8(v) > t {
			lut[v] = bright
		}
	}
	return mapLevels(gray, &lut)
}

// mapLevels runs every pixel of gray through lut. The input is gray, so the
// red channel carries the level.
func mapLevels(gray *image.Gray, lut *[256]uint8) *image.Gray {
	mapped := imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		v := lut[c.R]
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})
	return toGray(mapped)
}

/*
Otsu picks the global threshold that maximizes the between-class variance of
the intensity histogram. Pixels strictly above the returned value belong to
the bright class.
*/
func Otsu(gray *image.Gray) uint8 {
	gray = compact(gray)
	var histogram [256]float64
	for _, v := range gray.Pix {
		histogram[v]++
	}

	total := float64(len(gray.Pix))
	var sumAll float64
	for level, count := range histogram {
		sumAll += float64(level) * count
	}

	var weightBack, sumBack, bestVariance float64
	best := 0
	bestVariance = -1
	for level := 0; level < 256; level++ {
		weightBack += histogram[level]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(level) * histogram[level]
		meanBack := sumBack / weightBack
		meanFore := (sumAll - sumBack) / weightFore
		variance := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if variance > bestVariance {
			bestVariance = variance
			best = level
		}
	}
	return uint8(best)
}

/*
AdaptiveThreshold binarizes gray against a per-pixel threshold: the
Gaussian-weighted mean of the blockSize x blockSize neighborhood minus c.
blockSize must be odd. Borders replicate the edge pixels.
*/
func AdaptiveThreshold(gray *image.Gray, blockSize int, c float64, polarity string) *image.Gray {
	gray = compact(gray)
	bright, dark := levels(polarity)
	mean := gaussianMean(gray, blockSize)
	out := image.NewGray(gray.Rect)
	for i, v := range gray.Pix {
		if float64(v) > math.Round(mean[i])-c {
			out.Pix[i] = bright
		} else {
			out.Pix[i] = dark
		}
	}
	return out
}

// gaussianKernel derives sigma from the window size: 0.3*((size-1)/2-1) + 0.8.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	radius := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianMean is a separable blur that keeps full precision between passes.
func gaussianMean(gray *image.Gray, size int) []float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	kernel := gaussianKernel(size)
	radius := size / 2

	horizontal := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			var acc float64
			for k, weight := range kernel {
				sx := clampIndex(x+k-radius, w)
				acc += weight * float64(row[sx])
			}
			horizontal[y*w+x] = acc
		}
	}

	mean := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k, weight := range kernel {
				sy := clampIndex(y+k-radius, h)
				acc += weight * horizontal[sy*w+x]
			}
			mean[y*w+x] = acc
		}
	}
	return mean
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// compact copies sub-images into a zero-origin buffer with Stride == width.
func compact(gray *image.Gray) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if gray.Rect.Min == (image.Point{}) && gray.Stride == w && len(gray.Pix) == w*h {
		return gray
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		start := gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+y)
		copy(out.Pix[y*w:(y+1)*w], gray.Pix[start:start+w])
	}
	return out
}
