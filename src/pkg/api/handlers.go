// Package api exposes the note conversion pipeline over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/export"
	"notes-converter/src/pkg/ocr"
	"notes-converter/src/pkg/pipeline"
)

// NotesResponse is the JSON body of POST /api/notes.
type NotesResponse struct {
	Formatted      string      `json:"formatted"`
	Raw            string      `json:"raw"`
	Tokens         []ocr.Token `json:"tokens,omitempty"`
	MeanConfidence *float64    `json:"mean_confidence,omitempty"`
}

// Handler serves conversions with one engine and a base set of options.
// Per-request form fields override the base options for that request only.
type Handler struct {
	engine  ocr.Engine
	options pipeline.Options
}

func NewHandler(engine ocr.Engine, options pipeline.Options) *Handler {
	return &Handler{engine: engine, options: options}
}

// Convert handles POST /api/notes.
func (h *Handler) Convert(c echo.Context) error {
	result, err := h.run(c)
	if err != nil {
		return err
	}

	response := NotesResponse{
		Formatted: result.Formatted,
		Raw:       result.RawText,
		Tokens:    result.Tokens,
	}
	if result.MeanConfidence >= 0 {
		mean := result.MeanConfidence
		response.MeanConfidence = &mean
	}
	return c.JSON(http.StatusOK, response)
}

// Download handles POST /api/notes/download and returns the formatted text
// as a notes.txt attachment.
func (h *Handler) Download(c echo.Context) error {
	result, err := h.run(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.DownloadFileName),
	)
	return c.Blob(http.StatusOK, export.DownloadMIMEType+"; charset=utf-8", []byte(result.Formatted))
}

// Health handles GET /healthz.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) run(c echo.Context) (result pipeline.Result, err error) {
	img, opts, err := readUpload(c, h.options)
	if err != nil {
		return result, err
	}

	result, err = pipeline.Convert(c.Request().Context(), img, h.engine, opts)
	if err != nil {
		return result, toHTTPError(err)
	}

	tl.Log(
		tl.Info1, palette.Green, "%s: %d raw chars, %d formatted chars",
		"Converted upload", len(result.RawText), len(result.Formatted),
	)
	return result, nil
}

// toHTTPError maps pipeline errors onto status codes. Bad input is the
// client's fault, anything after conditioning belongs to the engine.
func toHTTPError(err error) *echo.HTTPError {
	var invalidImage *conditioner.InvalidImageError
	var invalidConfig *conditioner.ConfigError
	var engineFailure *ocr.EngineFailure

	switch {
	case errors.As(err, &invalidImage):
		return badRequest(invalidImage.Error())
	case errors.As(err, &invalidConfig):
		return badRequest(invalidConfig.Error())
	case errors.As(err, &engineFailure):
		tl.Log(tl.Warning, palette.Yellow, "%s: %s", "OCR engine failed", engineFailure.Error())
		return echo.NewHTTPError(http.StatusBadGateway, "text recognition failed").SetInternal(err)
	default:
		tl.Log(tl.Warning, palette.Yellow, "%s: %v", "Conversion failed", err)
		return echo.NewHTTPError(http.StatusBadGateway, "text recognition failed").SetInternal(err)
	}
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
