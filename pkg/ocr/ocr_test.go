package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fixedRecognizer(lines ...string) Recognizer {
	return RecognizerFunc(func(ctx context.Context, img image.Image, mode Mode) ([]string, error) {
		return lines, nil
	})
}

func TestParseLinesEndToEnd(t *testing.T) {
	items, err := ParseLines([]string{"Burger 8.99", "TOTAL 8.99", "Fries  3.50 3.25"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, "8.99", items[0].Cost.StringFixed(2))
	assert.Equal(t, "Fries", items[1].Name)
	assert.Equal(t, "3.25", items[1].Cost.StringFixed(2))
}

func TestParseLinesRoundTrip(t *testing.T) {
	items, err := ParseLines([]string{"Coffee $ 3.50"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee", items[0].Name)
	assert.Equal(t, "3.50", items[0].Cost.StringFixed(2))
}

func TestParseLinesOnlyMetadata(t *testing.T) {
	_, err := ParseLines([]string{"SUBTOTAL 10.00", "TAX 0.80", "TOTAL 10.80"})
	// TAX is not a keyword, so it survives as an item.
	require.NoError(t, err)

	_, err = ParseLines([]string{"SUBTOTAL 10.00", "TOTAL 10.80", "VISA 10.80"})
	assert.ErrorIs(t, err, ErrNoItemsFound)
}

func TestPipelineParseReceipt(t *testing.T) {
	img := imaging.New(120, 60, color.NRGBA{255, 255, 255, 255})
	var gotMode Mode
	var gotBounds image.Rectangle
	rec := RecognizerFunc(func(ctx context.Context, in image.Image, mode Mode) ([]string, error) {
		gotMode = mode
		gotBounds = in.Bounds()
		return []string{"ACME MART", "Milk 2.49", "Bread  1.99", "TOTAL 4.48", "THANK YOU"}, nil
	})
	p := NewPipeline(rec, ModeReceipt, DefaultPreprocessOptions())

	items, err := p.ParseReceipt(context.Background(), bytes.NewReader(pngBytes(t, img)))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Bread", items[1].Name)
	assert.Equal(t, ModeReceipt.PageSegMode, gotMode.PageSegMode)
	assert.Equal(t, image.Rect(0, 0, 120, 60), gotBounds)
}

func TestPipelineDecodeError(t *testing.T) {
	p := NewPipeline(fixedRecognizer("Milk 2.49"), ModeReceipt, DefaultPreprocessOptions())
	_, err := p.ParseReceipt(context.Background(), bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = p.ParseReceipt(context.Background(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPipelineRecognizerError(t *testing.T) {
	boom := errors.New("engine crashed")
	rec := RecognizerFunc(func(ctx context.Context, in image.Image, mode Mode) ([]string, error) {
		return nil, boom
	})
	p := NewPipeline(rec, ModeReceipt, DefaultPreprocessOptions())
	img := imaging.New(10, 10, color.NRGBA{255, 255, 255, 255})
	_, err := p.ParseReceipt(context.Background(), bytes.NewReader(pngBytes(t, img)))
	assert.ErrorIs(t, err, boom)
}

func TestPipelineNoItems(t *testing.T) {
	p := NewPipeline(fixedRecognizer("", "   ", "STORE"), ModeReceipt, DefaultPreprocessOptions())
	img := imaging.New(10, 10, color.NRGBA{255, 255, 255, 255})
	_, err := p.ParseReceipt(context.Background(), bytes.NewReader(pngBytes(t, img)))
	assert.ErrorIs(t, err, ErrNoItemsFound)
}
