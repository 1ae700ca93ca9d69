package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/export"
	"notes-converter/src/pkg/ocr"
)

// Files written into every run directory.
const (
	ConditionedFileName = "clean.png"
	RawTextFileName     = "ocr.txt"
	TokensFileName      = "tokens.json"
)

/*
ProcessImage orchestrates the overall note conversion for one image file.

It performs the following steps:
  1. Validates the input image path.
  2. Ensures the root output directory exists.
  3. Creates a per-run directory under the root, named by timestamp and image name.
  4. Copies the original image into that run directory as orig.<ext>.
  5. Conditions the image and saves it as clean.png.
  6. Runs OCR on the conditioned image.
  7. Saves the raw OCR text as ocr.txt and the formatted notes as notes.txt
     (plus tokens.json when token output is requested).

If any step fails, it returns a *xerr.Error describing the problem.
*/
func ProcessImage(ctx context.Context, imagePath string, outputDirPath string, engine ocr.Engine, opts Options) (runDirPath string, e *xerr.Error) {
	e = validateImagePath(imagePath)
	if e != nil {
		return
	}

	normalizedOutputDirPath := strings.TrimSpace(outputDirPath)
	if normalizedOutputDirPath == "" {
		normalizedOutputDirPath = "./out"
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s note conversion for '%s' into root '%s'",
		"Starting", imagePath, normalizedOutputDirPath,
	)

	e = export.EnsureOutputDirectory(normalizedOutputDirPath)
	if e != nil {
		return "", e
	}

	// Example: 2025-11-26_16-35-31_page-1
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	baseName := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	runDirPath = filepath.Join(normalizedOutputDirPath, timestamp+"_"+baseName)

	e = export.EnsureOutputDirectory(runDirPath)
	if e != nil {
		return runDirPath, e
	}

	originalExt := strings.ToLower(filepath.Ext(imagePath))
	if originalExt == "" {
		originalExt = ".jpg"
	}

	originalOutPath := filepath.Join(runDirPath, "orig"+originalExt)
	conditionedOutPath := filepath.Join(runDirPath, ConditionedFileName)
	rawTextOutPath := filepath.Join(runDirPath, RawTextFileName)
	notesOutPath := filepath.Join(runDirPath, export.DownloadFileName)
	tokensOutPath := filepath.Join(runDirPath, TokensFileName)

	e = export.CopyFile(imagePath, originalOutPath)
	if e != nil {
		return runDirPath, e
	}

	img, openErr := conditioner.Open(imagePath)
	if openErr != nil {
		e = xerr.NewError(openErr, "open image for conversion", imagePath)
		return runDirPath, e
	}

	result, convertErr := Convert(ctx, img, engine, opts)
	if result.Conditioned != nil {
		saveErr := imaging.Save(result.Conditioned, conditionedOutPath)
		if saveErr != nil {
			e = xerr.NewError(saveErr, "save conditioned image", conditionedOutPath)
			return runDirPath, e
		}
		tl.Log(tl.Info1, palette.Green, "Saved conditioned image to '%s'", conditionedOutPath)
	}
	if convertErr != nil {
		e = xerr.NewError(convertErr, "convert image to notes", imagePath)
		return runDirPath, e
	}

	_, e = export.SaveTextToFile(rawTextOutPath, result.RawText)
	if e != nil {
		return runDirPath, e
	}

	_, e = export.SaveTextToFile(notesOutPath, result.Formatted)
	if e != nil {
		return runDirPath, e
	}

	if opts.WithTokens {
		e = export.SaveJSONToFile(tokensOutPath, result.Tokens)
		if e != nil {
			return runDirPath, e
		}
		tl.Log(tl.Info, palette.Cyan, "Mean token confidence: '%s'", fmt.Sprintf("%.1f", result.MeanConfidence))
	}

	tl.Log(
		tl.Info1, palette.Green, "Finished processing image '%s'. Run dir: '%s', original: '%s', conditioned: '%s', notes: '%s'",
		imagePath, runDirPath, originalOutPath, conditionedOutPath, notesOutPath,
	)

	return runDirPath, e
}

/*
validateImagePath ensures the image path is not empty and has an accepted
extension. Existence is checked when the file is copied.
*/
func validateImagePath(imagePath string) (e *xerr.Error) {
	if strings.TrimSpace(imagePath) == "" {
		err := fmt.Errorf("image path flag '-image' is empty")
		e = xerr.NewError(err, "no input image path provided", imagePath)
		tl.Log(
			tl.Important, palette.PurpleBold, "Exiting early: '%s'",
			"no input image (-image) provided",
		)
		return
	}
	if !IsAllowedImageExt(filepath.Ext(imagePath)) {
		err := fmt.Errorf("unsupported image extension: %s", filepath.Ext(imagePath))
		e = xerr.NewError(err, "input file is not .jpg/.jpeg/.png", imagePath)
	}
	return
}
