/*
Package tesseract implements ocr.Engine on top of gosseract.

It needs the Tesseract library and language data installed. On Ubuntu/Debian:

	apt-get install tesseract-ocr libtesseract-dev
*/
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"notes-converter/src/pkg/ocr"
)

const engineName = "tesseract"

// Engine creates one gosseract client per call and closes it before returning.
type Engine struct {
	clientFactory func() *gosseract.Client
}

func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (t *Engine) Name() string { return engineName }

/*
Recognize returns the plain text Tesseract reads from img.

Any failure is returned as *ocr.EngineFailure. The call blocks until Tesseract
finishes; ctx is only checked before the work starts.
*/
func (t *Engine) Recognize(ctx context.Context, img image.Image, cfg ocr.EngineConfig) (text string, err error) {
	err = t.withClient(ctx, img, cfg, func(client *gosseract.Client) error {
		var textErr error
		text, textErr = client.Text()
		if textErr != nil {
			return failure("recognize text", textErr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	tl.Log(tl.Info1, palette.Green, "OCR completed (text length: %s, options: '%s')", fmt.Sprintf("%d", len(text)), cfg.String())
	return text, nil
}

/*
RecognizeTokens returns every recognized word with its confidence.

Words Tesseract did not score carry ocr.NoConfidence.
*/
func (t *Engine) RecognizeTokens(ctx context.Context, img image.Image, cfg ocr.EngineConfig) (tokens []ocr.Token, err error) {
	err = t.withClient(ctx, img, cfg, func(client *gosseract.Client) error {
		boxes, boxesErr := client.GetBoundingBoxes(gosseract.RIL_WORD)
		if boxesErr != nil {
			return failure("recognize tokens", boxesErr)
		}
		tokens = make([]ocr.Token, 0, len(boxes))
		for _, box := range boxes {
			confidence := box.Confidence
			if confidence < 0 {
				confidence = ocr.NoConfidence
			}
			tokens = append(tokens, ocr.Token{Text: box.Word, Confidence: confidence, Box: box.Box})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tl.Log(tl.Info1, palette.Green, "Token OCR completed ('%d' tokens)", len(tokens))
	return tokens, nil
}

func (t *Engine) withClient(ctx context.Context, img image.Image, cfg ocr.EngineConfig, run func(*gosseract.Client) error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return failure("start", ctxErr)
	}

	imageBytes, encodeErr := encodePNG(img)
	if encodeErr != nil {
		return failure("encode image", encodeErr)
	}

	client := t.clientFactory()
	defer func() {
		_ = client.Close()
	}()

	cleanup, configureErr := configure(client, cfg)
	defer cleanup()
	if configureErr != nil {
		return configureErr
	}

	setErr := client.SetImageFromBytes(imageBytes)
	if setErr != nil {
		return failure("set image", setErr)
	}

	return run(client)
}

/*
configure applies cfg to client. Engine modes are init-only in Tesseract, so a
non-default mode goes through a temporary config file; the returned cleanup
removes it and is always safe to call.
*/
func configure(client *gosseract.Client, cfg ocr.EngineConfig) (cleanup func(), err error) {
	cleanup = func() {}

	if len(cfg.Languages) > 0 {
		langErr := client.SetLanguage(cfg.Languages...)
		if langErr != nil {
			return cleanup, failure("set languages", langErr)
		}
	}

	psmErr := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode))
	if psmErr != nil {
		return cleanup, failure(fmt.Sprintf("set page segmentation mode %d", cfg.PageSegMode), psmErr)
	}

	for key, value := range cfg.Variables {
		varErr := client.SetVariable(gosseract.SettableVariable(key), value)
		if varErr != nil {
			return cleanup, failure(fmt.Sprintf("set variable %s", key), varErr)
		}
	}

	if cfg.EngineMode == ocr.OEMDefault {
		return cleanup, nil
	}

	configFile, createErr := os.CreateTemp("", "notes-oem-*.cfg")
	if createErr != nil {
		return cleanup, failure("create engine mode config", createErr)
	}
	cleanup = func() {
		_ = os.Remove(configFile.Name())
	}
	_, writeErr := fmt.Fprintf(configFile, "tessedit_ocr_engine_mode %d\n", cfg.EngineMode)
	closeErr := configFile.Close()
	if writeErr != nil {
		return cleanup, failure("write engine mode config", writeErr)
	}
	if closeErr != nil {
		return cleanup, failure("close engine mode config", closeErr)
	}

	fileErr := client.SetConfigFile(configFile.Name())
	if fileErr != nil {
		return cleanup, failure("set engine mode", fileErr)
	}
	return cleanup, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.PNG)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func failure(op string, err error) error {
	tl.Log(tl.Warning, palette.PurpleBold, "Tesseract %s failed: '%s'", op, err)
	return &ocr.EngineFailure{Engine: engineName, Op: op, Err: err}
}
