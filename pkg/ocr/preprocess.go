package ocr

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// DefaultMaxPixels bounds decoded image area (about 8000x5000).
const DefaultMaxPixels = 40_000_000

// DefaultThreshold separates paper from ink: intensities at or above it become white.
const DefaultThreshold uint8 = 150

// PreprocessOptions tunes the cleanup applied before recognition.
type PreprocessOptions struct {
	Threshold   uint8
	BlurSigma   float64
	CloseRadius int
	// MaxPixels rejects images whose width*height exceeds it; zero disables the check.
	MaxPixels int
	// DebugDir, when set, receives a PNG of every preprocessed image.
	DebugDir string
}

// DefaultPreprocessOptions returns the receipt-tuned defaults.
// A sigma of 1.1 matches a 5x5 Gaussian kernel.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Threshold:   DefaultThreshold,
		BlurSigma:   1.1,
		CloseRadius: 1,
		MaxPixels:   DefaultMaxPixels,
	}
}

// Preprocess decodes an uploaded image and returns a binarized, denoised
// grayscale copy suitable for OCR. Nothing touches the disk unless
// opts.DebugDir is set.
func Preprocess(r io.Reader, opts PreprocessOptions) (*image.Gray, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if opts.MaxPixels > 0 && cfg.Width*cfg.Height > opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, opts.MaxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	out := PreprocessImage(img, opts)
	if opts.DebugDir != "" {
		saveDebugImage(out, opts.DebugDir)
	}
	return out, nil
}

// PreprocessImage runs grayscale, fixed threshold, smoothing and closing, in that order.
func PreprocessImage(img image.Image, opts PreprocessOptions) *image.Gray {
	gray := toGray(imaging.Grayscale(img))
	bin := binarize(gray, opts.Threshold)
	if opts.BlurSigma > 0 {
		bin = toGray(imaging.Blur(bin, opts.BlurSigma))
	}
	return closeInk(bin, opts.CloseRadius)
}

// toGray copies the red channel of an already-desaturated image.
func toGray(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * out.Stride
		for x := 0; x < w; x++ {
			out.Pix[di+x] = src.Pix[si+x*4]
		}
	}
	return out
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img *image.Gray, threshold uint8) *image.Gray {
	out := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		if v >= threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// closeInk performs a morphological closing of the dark strokes:
// the ink is grown then shrunk with a 4-neighbourhood cross, radius times each.
func closeInk(img *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return img
	}
	return morph(morph(img, radius, darker), radius, lighter)
}

func morph(img *image.Gray, radius int, pick func(a, b uint8) uint8) *image.Gray {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	cur := img
	for r := 0; r < radius; r++ {
		next := image.NewGray(cur.Bounds())
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := cur.Pix[y*cur.Stride+x]
				for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					x2 := x + d[0]
					y2 := y + d[1]
					if x2 < 0 || y2 < 0 || x2 >= w || y2 >= h {
						continue
					}
					v = pick(v, cur.Pix[y2*cur.Stride+x2])
				}
				next.Pix[y*next.Stride+x] = v
			}
		}
		cur = next
	}
	return cur
}

func darker(a, b uint8) uint8 {
	if b < a {
		return b
	}
	return a
}

func lighter(a, b uint8) uint8 {
	if b > a {
		return b
	}
	return a
}

func saveDebugImage(img image.Image, dir string) {
	path := filepath.Join(dir, "preprocessed-"+uuid.NewString()+".png")
	if err := imaging.Save(img, path); err != nil {
		slog.Warn("failed to save preprocessed image", "path", path, "error", err)
		return
	}
	slog.Debug("preprocessed image saved", "path", path)
}
