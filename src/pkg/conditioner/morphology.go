package conditioner

import "image"

/*
Thicken dilates the ink of img with a kernel x kernel square structuring
element, repeated iterations times. ink is the intensity of strokes (255 for
inverted output, 0 for normal), so the operation is a max filter or a min
filter respectively. The anchor sits at kernel/2, matching the usual
convention for even-sized elements. Out-of-image neighbours are ignored.
*/
func Thicken(img *image.Gray, kernel, iterations int, ink uint8) *image.Gray {
	out := compact(img)
	for range iterations {
		out = dilateOnce(out, kernel, ink == 255)
	}
	return out
}

func dilateOnce(src *image.Gray, kernel int, takeMax bool) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	anchor := kernel / 2
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			extreme := src.Pix[y*src.Stride+x]
			for ky := 0; ky < kernel; ky++ {
				sy := y + ky - anchor
				if sy < 0 || sy >= h {
					continue
				}
				for kx := 0; kx < kernel; kx++ {
					sx := x + kx - anchor
					if sx < 0 || sx >= w {
						continue
					}
					v := src.Pix[sy*src.Stride+sx]
					if takeMax && v > extreme || !takeMax && v < extreme {
						extreme = v
					}
				}
			}
			out.Pix[y*out.Stride+x] = extreme
		}
	}
	return out
}
