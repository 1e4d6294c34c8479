package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Mode selects an OCR engine configuration.
type Mode struct {
	PageSegMode gosseract.PageSegMode
	Languages   []string
	Whitelist   string
}

// ModeReceipt treats the image as one uniform block of text, one line per row,
// which suits single-column receipts mixing names and prices.
var ModeReceipt = Mode{
	PageSegMode: gosseract.PSM_SINGLE_BLOCK,
	Languages:   []string{"eng"},
}

// Recognizer turns a preprocessed image into raw text lines.
// Output is not guaranteed to be stable across engine versions.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, mode Mode) ([]string, error)
}

// RecognizerFunc adapts a plain function to Recognizer.
type RecognizerFunc func(ctx context.Context, img image.Image, mode Mode) ([]string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image, mode Mode) ([]string, error) {
	return f(ctx, img, mode)
}

// TesseractRecognizer implements Recognizer with gosseract.
type TesseractRecognizer struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractRecognizer constructs a Tesseract-backed recognizer.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{clientFactory: gosseract.NewClient}
}

// Recognize hands the image to Tesseract as an in-memory PNG.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image, mode Mode) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrRecognize, err)
	}

	client := t.clientFactory()
	defer client.Close()
	if len(mode.Languages) > 0 {
		if err := client.SetLanguage(mode.Languages...); err != nil {
			return nil, fmt.Errorf("%w: set languages: %v", ErrRecognize, err)
		}
	}
	if err := client.SetPageSegMode(mode.PageSegMode); err != nil {
		return nil, fmt.Errorf("%w: set page seg mode: %v", ErrRecognize, err)
	}
	if mode.Whitelist != "" {
		if err := client.SetWhitelist(mode.Whitelist); err != nil {
			return nil, fmt.Errorf("%w: set whitelist: %v", ErrRecognize, err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: set image: %v", ErrRecognize, err)
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognize, err)
	}
	return splitLines(text), nil
}
