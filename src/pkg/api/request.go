package api

import (
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/ocr"
	"notes-converter/src/pkg/pipeline"
)

// Multipart field and form value names accepted by the upload endpoints.
const (
	FieldImage           = "image"
	FieldPageSegMode     = "psm"
	FieldBinarization    = "binarization"
	FieldCorrectSpelling = "correct_spelling"
	FieldTokens          = "tokens"
)

/*
readUpload decodes the uploaded image and applies the optional form fields
on top of base. Only PNG and JPEG uploads are accepted; the part's
Content-Type decides, and the file extension is consulted only when the
client sent a generic type.
*/
func readUpload(c echo.Context, base pipeline.Options) (img image.Image, opts pipeline.Options, err error) {
	opts = base

	fileHeader, err := c.FormFile(FieldImage)
	if err != nil {
		return nil, opts, badRequest(fmt.Sprintf("multipart field '%s' is required", FieldImage))
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if !acceptsUpload(contentType, fileHeader.Filename) {
		return nil, opts, echo.NewHTTPError(
			http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported image type '%s', expected PNG or JPEG", contentType),
		)
	}

	opts, err = applyFormOptions(c, opts)
	if err != nil {
		return nil, opts, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, opts, badRequest("unable to read uploaded image")
	}
	defer file.Close()

	img, err = conditioner.Decode(file)
	if err != nil {
		return nil, opts, badRequest(err.Error())
	}
	return img, opts, nil
}

func acceptsUpload(contentType string, fileName string) bool {
	if pipeline.IsAllowedContentType(contentType) {
		return true
	}
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	switch strings.TrimSpace(mediaType) {
	case "", echo.MIMEOctetStream:
		return pipeline.IsAllowedImageExt(filepath.Ext(fileName))
	default:
		return false
	}
}

func applyFormOptions(c echo.Context, opts pipeline.Options) (pipeline.Options, error) {
	if value := c.FormValue(FieldPageSegMode); value != "" {
		mode, err := ocr.ParsePageSegMode(value)
		if err != nil {
			return opts, badRequest(err.Error())
		}
		opts.Engine.PageSegMode = mode
	}

	// Validated by the conditioner, which reports an unknown policy as a
	// ConfigError.
	if value := c.FormValue(FieldBinarization); value != "" {
		opts.Conditioner.Binarization = strings.ToLower(strings.TrimSpace(value))
	}

	correctSpelling, err := formBool(c, FieldCorrectSpelling, opts.Normalize.CorrectSpelling)
	if err != nil {
		return opts, err
	}
	opts.Normalize.CorrectSpelling = correctSpelling

	withTokens, err := formBool(c, FieldTokens, opts.WithTokens)
	if err != nil {
		return opts, err
	}
	opts.WithTokens = withTokens

	return opts, nil
}

func formBool(c echo.Context, name string, fallback bool) (bool, error) {
	value := c.FormValue(name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, badRequest(fmt.Sprintf("form field '%s' must be a boolean, got '%s'", name, value))
	}
	return parsed, nil
}
