// Package export writes pipeline artifacts to disk and names the download.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Download metadata for the formatted notes.
const (
	DownloadFileName = "notes.txt"
	DownloadMIMEType = "text/plain"
)

/*
EnsureOutputDirectory creates the target directory (and parents) if needed.

It uses os.MkdirAll and returns a *xerr.Error if creation fails.
*/
func EnsureOutputDirectory(outputDirPath string) (e *xerr.Error) {
	err := os.MkdirAll(outputDirPath, 0o755)
	if err != nil {
		e = xerr.NewError(err, "create output directory", outputDirPath)
		return e
	}

	tl.Log(
		tl.Info1, palette.Blue, "Ensured output directory '%s'",
		outputDirPath,
	)

	return e
}

/*
CopyFile copies sourcePath to destinationPath byte for byte.

Both files are closed on every path. A failed close of the destination is
reported, since it can mean the copy never reached the disk.
*/
func CopyFile(sourcePath string, destinationPath string) (e *xerr.Error) {
	sourceFile, openErr := os.Open(sourcePath)
	if openErr != nil {
		e = xerr.NewError(openErr, "open source file for copy", sourcePath)
		return e
	}
	defer func() {
		_ = sourceFile.Close()
	}()

	e = writeScoped(destinationPath, "copy file", func(w io.Writer) error {
		_, copyErr := io.Copy(w, sourceFile)
		return copyErr
	})
	if e != nil {
		return e
	}

	tl.Log(
		tl.Info1, palette.Green, "Copied '%s' to '%s'",
		sourcePath, destinationPath,
	)

	return e
}

/*
SaveTextToFile writes text as UTF-8 to destinationPath, overwriting it.

An empty path falls back to DownloadFileName in the working directory. The file
is opened, written, and closed inside this call.
*/
func SaveTextToFile(destinationPath string, text string) (savedPath string, e *xerr.Error) {
	savedPath = strings.TrimSpace(destinationPath)
	if savedPath == "" {
		savedPath = DownloadFileName
	}

	e = writeScoped(savedPath, "write text file", func(w io.Writer) error {
		_, writeErr := io.WriteString(w, text)
		return writeErr
	})
	if e != nil {
		return savedPath, e
	}

	tl.Log(
		tl.Info1, palette.Green, "Saved text to '%s'",
		savedPath,
	)

	return savedPath, e
}

/*
SaveJSONToFile marshals the given value to pretty-printed JSON and writes it
to a .json file at the given path.

It accepts slices, structs, maps, or any JSON-marshalable value. It overwrites
any existing file at that location. If marshalling or writing fails, it
returns a *xerr.Error.
*/
func SaveJSONToFile(destinationPath string, value any) (e *xerr.Error) {
	jsonBytes, marshalErr := json.MarshalIndent(value, "", "  ")
	if marshalErr != nil {
		e = xerr.NewError(marshalErr, "marshal value to JSON", destinationPath)
		return e
	}

	e = writeScoped(destinationPath, "write JSON file", func(w io.Writer) error {
		_, writeErr := w.Write(jsonBytes)
		return writeErr
	})
	if e != nil {
		return e
	}

	tl.Log(
		tl.Info1, palette.Green, "Saved JSON data to '%s'",
		destinationPath,
	)

	return e
}

// writeScoped creates path, hands it to write, and always closes it.
func writeScoped(path string, action string, write func(io.Writer) error) (e *xerr.Error) {
	file, createErr := os.Create(path)
	if createErr != nil {
		e = xerr.NewError(createErr, fmt.Sprintf("%s: create", action), path)
		return e
	}

	writeErr := write(file)
	closeErr := file.Close()
	if writeErr != nil {
		e = xerr.NewError(writeErr, action, path)
		return e
	}
	if closeErr != nil {
		e = xerr.NewError(closeErr, fmt.Sprintf("%s: close", action), path)
		return e
	}

	return e
}
