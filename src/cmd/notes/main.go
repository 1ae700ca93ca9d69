// Command notes converts photographed handwritten notes into formatted text.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/export"
	"notes-converter/src/pkg/normalize"
	"notes-converter/src/pkg/ocr/tesseract"
	"notes-converter/src/pkg/pipeline"
	"notes-converter/src/pkg/util"
)

/*
Condition, recognize, and format one image or every image in a directory.
Each image gets its own run directory under -out.
*/
func convert(subprogram string, flags []string) {
	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	imagePath := subprogramCmd.String("image", "", "Image of a handwritten note, or a directory of .png/.jpg/.jpeg images.")
	outputDirPath := subprogramCmd.String("out", "./out", "Directory where run directories will be created.")
	pageSegMode := subprogramCmd.String("psm", "", "Page segmentation mode override: block, line, sparse, auto or a number.")
	withTokens := subprogramCmd.Bool("tokens", false, "Also store word tokens with confidences in tokens.json.")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	util.RequiredFlag(imagePath, "image")
	util.EnsureFlags()
	initializePackages(*configPath)

	opts := pipelineOptions(*pageSegMode, *withTokens)
	tl.Log(tl.Info1, palette.Cyan, "%s '%s'", "Using OCR options", opts.Engine.String())

	images, e := pipeline.ResolveImages(*imagePath)
	e.QuitIf(xerr.ErrorTypeError)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := tesseract.NewEngine()
	for index, path := range images {
		tl.Log(tl.Notice, palette.Blue, "[%d/%d] %s '%s'", index+1, len(images), "Converting", path)
		runDirPath, e := pipeline.ProcessImage(ctx, path, *outputDirPath, engine, opts)
		e.QuitIf(xerr.ErrorTypeError)
		tl.Log(tl.Info1, palette.Green, "%s '%s'", "Results stored in", runDirPath)
	}

	tl.Log(tl.Notice1, palette.GreenBold, "%s: '%d' image(s)", "Conversion completed", len(images))
}

/*
Format an already recognized text file. With -flat the text is flattened into
a single ASCII paragraph instead.
*/
func format(subprogram string, flags []string) {
	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	inputPath := subprogramCmd.String("input", "", "Raw OCR text file.")
	outputPath := subprogramCmd.String("output", export.DownloadFileName, "Where to write the formatted text.")
	flat := subprogramCmd.Bool("flat", false, "Write a single cleaned paragraph instead of formatted notes.")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	util.RequiredFlag(inputPath, "input")
	util.EnsureFlags()
	initializePackages(*configPath)

	rawBytes, err := os.ReadFile(*inputPath)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", *inputPath))
	tl.Log(tl.Verbose, palette.BlueDim, "Raw text:\n```\n%s\n```", rawBytes)

	var text string
	if *flat {
		text = normalize.CleanExtractedText(string(rawBytes))
	} else {
		opts, e := normalize.Cfg.Options()
		e.QuitIf(xerr.ErrorTypeError)
		text = normalize.FormatText(string(rawBytes), opts)
	}
	tl.Log(tl.Verbose, palette.BlueDim, "Formatted text:\n```\n%s\n```", text)

	savedPath, e := export.SaveTextToFile(*outputPath, text)
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Notice1, palette.GreenBold, "%s '%s'", "Formatted text saved to", savedPath)
}

// Condition a single image and store the result as PNG.
func condition(subprogram string, flags []string) {
	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	imagePath := subprogramCmd.String("image", "", "Image of a handwritten note.")
	outputPath := subprogramCmd.String("out", "", "Where to write the conditioned PNG.")
	binarization := subprogramCmd.String("binarization", "", "Binarization override: adaptive, otsu, fixed or none.")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	util.RequiredFlag(imagePath, "image")
	util.RequiredFlag(outputPath, "out")
	util.EnsureFlags()
	initializePackages(*configPath)

	cfg := conditioner.Cfg
	if *binarization != "" {
		cfg.Binarization = *binarization
	}

	conditioned, err := conditioner.ConditionFile(*imagePath, *outputPath, cfg)
	if err != nil {
		xerr.NewError(err, "condition image", *imagePath).QuitIf(xerr.ErrorTypeError)
	}

	bounds := conditioned.Bounds()
	tl.Log(
		tl.Notice1, palette.GreenBold, "%s '%s' (%dx%d, %s)",
		"Conditioned image saved to", *outputPath, bounds.Dx(), bounds.Dy(), cfg.Binarization,
	)
}

func main() {
	// Check if there are enough arguments
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/notes/main.go subprogram_name(convert, format or condition)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	// Switch subprogram based on the first argument
	switch subprogram {
	case "convert":
		convert(subprogram, flags)
	case "format":
		format(subprogram, flags)
	case "condition":
		condition(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
