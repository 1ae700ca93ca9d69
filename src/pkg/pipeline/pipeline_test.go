package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/export"
	"notes-converter/src/pkg/ocr"
	"notes-converter/src/pkg/ocr/ocrtest"
)

const meetingNotes = "MEETING NOTES\n* etrective results\n- multple items\nsome plain line"

func notePage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 5; x < 35; x++ {
		img.Set(x, 10, color.Black)
	}
	return img
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, notePage()))
}

func TestConvert(t *testing.T) {
	engine := &ocrtest.Engine{Text: meetingNotes}

	result, err := Convert(context.Background(), notePage(), engine, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, meetingNotes, result.RawText)
	assert.Equal(t, "### Meeting Notes\n\n- Effective results\n- multiple items\nsome plain line", result.Formatted)
	assert.Equal(t, image.Rect(0, 0, 60, 30), engine.LastBounds(), "engine sees the upscaled page")
	assert.Equal(t, 1, engine.Calls())
	assert.Nil(t, result.Tokens)
	assert.Equal(t, ocr.NoConfidence, result.MeanConfidence)
}

func TestConvertWithTokens(t *testing.T) {
	engine := &ocrtest.Engine{
		Text:   "hello",
		Tokens: []ocr.Token{{Text: "hello", Confidence: 88}, {Text: "", Confidence: ocr.NoConfidence}},
	}
	opts := DefaultOptions()
	opts.WithTokens = true

	result, err := Convert(context.Background(), notePage(), engine, opts)
	require.NoError(t, err)
	assert.Len(t, result.Tokens, 2)
	assert.InDelta(t, 88.0, result.MeanConfidence, 1e-9)
	assert.Equal(t, 2, engine.Calls())
}

func TestConvertSurfacesErrorsUnchanged(t *testing.T) {
	engineErr := &ocr.EngineFailure{Engine: "fake", Op: "recognize", Err: errors.New("no tessdata")}
	_, err := Convert(context.Background(), notePage(), &ocrtest.Engine{Err: engineErr}, DefaultOptions())
	assert.Same(t, engineErr, err)

	_, err = Convert(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)), &ocrtest.Engine{}, DefaultOptions())
	var invalid *conditioner.InvalidImageError
	assert.True(t, errors.As(err, &invalid))
}

func TestProcessImageWritesRunDirectory(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "page.png")
	writePNG(t, imagePath)

	opts := DefaultOptions()
	opts.WithTokens = true
	engine := &ocrtest.Engine{Text: meetingNotes, Tokens: []ocr.Token{{Text: "MEETING", Confidence: 75}}}

	runDir, e := ProcessImage(context.Background(), imagePath, filepath.Join(dir, "out"), engine, opts)
	require.Nil(t, e)
	assert.Contains(t, filepath.Base(runDir), "_page")

	for _, name := range []string{"orig.png", ConditionedFileName, RawTextFileName, export.DownloadFileName, TokensFileName} {
		assert.FileExists(t, filepath.Join(runDir, name))
	}

	notes, err := os.ReadFile(filepath.Join(runDir, export.DownloadFileName))
	require.NoError(t, err)
	assert.Equal(t, "### Meeting Notes\n\n- Effective results\n- multiple items\nsome plain line", string(notes))
}

func TestProcessImageEngineFailure(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "page.jpg")
	writePNG(t, imagePath) // content sniffing decodes it regardless of the extension

	engine := &ocrtest.Engine{Err: errors.New("engine unavailable")}
	runDir, e := ProcessImage(context.Background(), imagePath, filepath.Join(dir, "out"), engine, DefaultOptions())
	assert.NotNil(t, e)
	assert.FileExists(t, filepath.Join(runDir, ConditionedFileName), "conditioned page is kept for inspection")
	assert.NoFileExists(t, filepath.Join(runDir, export.DownloadFileName))
}

func TestProcessImageRejectsBadPaths(t *testing.T) {
	dir := t.TempDir()
	_, e := ProcessImage(context.Background(), "", dir, &ocrtest.Engine{}, DefaultOptions())
	assert.NotNil(t, e)

	_, e = ProcessImage(context.Background(), filepath.Join(dir, "notes.gif"), dir, &ocrtest.Engine{}, DefaultOptions())
	assert.NotNil(t, e)
}

func TestResolveImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "c.jpeg", "skip.txt", "skip.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	images, e := ResolveImages(dir)
	require.Nil(t, e)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.JPG"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.jpeg"),
	}, images)

	single, e := ResolveImages(filepath.Join(dir, "b.png"))
	require.Nil(t, e)
	assert.Equal(t, []string{filepath.Join(dir, "b.png")}, single)

	_, e = ResolveImages(filepath.Join(dir, "skip.txt"))
	assert.NotNil(t, e)
	_, e = ResolveImages("   ")
	assert.NotNil(t, e)
	_, e = ResolveImages(filepath.Join(dir, "missing.png"))
	assert.NotNil(t, e)
}

func TestIsAllowedContentType(t *testing.T) {
	assert.True(t, IsAllowedContentType("image/png"))
	assert.True(t, IsAllowedContentType("IMAGE/JPEG; charset=binary"))
	assert.False(t, IsAllowedContentType("image/gif"))
	assert.False(t, IsAllowedContentType("text/plain"))
	assert.False(t, IsAllowedContentType(""))
}
