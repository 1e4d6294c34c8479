package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"splitbill/models"
)

// Pipeline turns receipt images into line items:
// preprocess, recognize, sanitize, exclude, extract.
type Pipeline struct {
	recognizer Recognizer
	mode       Mode
	opts       PreprocessOptions
}

// NewPipeline builds a pipeline around a recognizer.
func NewPipeline(rec Recognizer, mode Mode, opts PreprocessOptions) *Pipeline {
	return &Pipeline{recognizer: rec, mode: mode, opts: opts}
}

// ParseReceipt reads one image and returns the items found on it.
// Errors: ErrDecode, ErrRecognize, ErrNoItemsFound.
func (p *Pipeline) ParseReceipt(ctx context.Context, r io.Reader) ([]models.LineItem, error) {
	img, err := Preprocess(r, p.opts)
	if err != nil {
		return nil, err
	}
	lines, err := p.recognizer.Recognize(ctx, img, p.mode)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	slog.Debug("OCR raw", "lines", len(lines), "snippet", snippet(strings.Join(lines, " | "), 180))
	return ParseLines(lines)
}

// ParseLines applies the text half of the pipeline to already-recognized lines.
func ParseLines(lines []string) ([]models.LineItem, error) {
	kept := make([]string, 0, len(lines))
	for _, l := range SanitizeLines(lines) {
		if ShouldExclude(l) {
			slog.Debug("line excluded by keyword", "line", l)
			continue
		}
		kept = append(kept, l)
	}
	items, err := ExtractItems(kept)
	if err != nil {
		return nil, err
	}
	slog.Debug("receipt parsed", "lines", len(lines), "items", len(items))
	return items, nil
}
