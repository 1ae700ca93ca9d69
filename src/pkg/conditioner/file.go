package conditioner

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Decode reads an encoded raster, applying EXIF orientation for phone photos.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InvalidImageError{Reason: "decode", Err: err}
	}
	return img, nil
}

// EncodePNG writes img losslessly; OCR engines receive conditioned pages this way.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Open decodes the image file at path, applying EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InvalidImageError{Reason: "open " + path, Err: err}
	}
	return img, nil
}

/*
ConditionFile opens sourcePath, conditions it with cfg, and saves the result
to destinationPath. The output format follows the destination extension, so
callers normally pass a .png path.
*/
func ConditionFile(sourcePath string, destinationPath string, cfg Config) (*image.Gray, error) {
	img, err := Open(sourcePath)
	if err != nil {
		return nil, err
	}

	conditioned, err := Condition(img, cfg)
	if err != nil {
		return nil, err
	}

	saveErr := imaging.Save(conditioned, destinationPath)
	if saveErr != nil {
		return nil, fmt.Errorf("save conditioned image '%s': %w", destinationPath, saveErr)
	}
	return conditioned, nil
}
