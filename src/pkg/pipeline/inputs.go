package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tuumbleweed/xerr"
)

/*
ResolveImages turns an input path into the list of images to process.

inputPath can be a single .png/.jpg/.jpeg file or a directory; directories
are scanned one level deep and the result is sorted.
*/
func ResolveImages(inputPath string) (images []string, e *xerr.Error) {
	trimmed := strings.TrimSpace(inputPath)
	if trimmed == "" {
		err := fmt.Errorf("input path is empty")
		e = xerr.NewError(err, "missing -image input", inputPath)
		return
	}

	info, statErr := os.Stat(trimmed)
	if statErr != nil {
		e = xerr.NewError(statErr, "stat -image input path", trimmed)
		return
	}

	if info.IsDir() {
		return listImagesInDir(trimmed)
	}

	ext := strings.ToLower(filepath.Ext(trimmed))
	if !IsAllowedImageExt(ext) {
		err := fmt.Errorf("unsupported image extension: %s", ext)
		e = xerr.NewError(err, "input file is not .jpg/.jpeg/.png", trimmed)
		return
	}

	return []string{trimmed}, nil
}

func listImagesInDir(dirPath string) (images []string, e *xerr.Error) {
	entries, readErr := os.ReadDir(dirPath)
	if readErr != nil {
		e = xerr.NewError(readErr, "read directory", dirPath)
		return
	}

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if !IsAllowedImageExt(filepath.Ext(ent.Name())) {
			continue
		}
		images = append(images, filepath.Join(dirPath, ent.Name()))
	}

	sort.Strings(images)
	return
}

func IsAllowedImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// IsAllowedContentType accepts the MIME types of the allowed extensions.
func IsAllowedContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	switch strings.TrimSpace(mediaType) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}
