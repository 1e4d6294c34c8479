// Command receipt_scan runs the receipt OCR pipeline over local images
// without the HTTP server. It prints one JSON object per image.
//
//	go run ./cmd/receipt_scan -file receipt.jpg
//	go run ./cmd/receipt_scan -dir ./receipts -workers 4
//	go run ./cmd/receipt_scan -dir ./inbox -watch
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"splitbill/models"
	"splitbill/pkg/config"
	"splitbill/pkg/logging"
	"splitbill/pkg/ocr"
	"splitbill/pkg/scan"
)

type result struct {
	File  string            `json:"file"`
	Items []models.LineItem `json:"items,omitempty"`
	Error string            `json:"error,omitempty"`
}

// printer serializes results from concurrent workers.
type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (p *printer) print(r result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(r); err != nil {
		slog.Error("write result", "error", err)
	}
}

func main() {
	file := flag.String("file", "", "single image to scan")
	dir := flag.String("dir", "", "directory of images to scan")
	watch := flag.Bool("watch", false, "keep watching -dir for new images")
	workers := flag.Int("workers", 2, "concurrent OCR workers")
	threshold := flag.Int("threshold", -1, "binarization threshold 0-255 (default from config)")
	debugDir := flag.String("debug-dir", "", "write preprocessed images here")
	flag.Parse()

	if (*file == "") == (*dir == "") {
		fmt.Fprintln(os.Stderr, "usage: receipt_scan -file <image> | -dir <directory> [-watch]")
		os.Exit(2)
	}
	if *watch && *dir == "" {
		fmt.Fprintln(os.Stderr, "-watch requires -dir")
		os.Exit(2)
	}

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logging.Setup(conf.LogLevel)

	opts := ocr.DefaultPreprocessOptions()
	opts.Threshold = uint8(conf.OCR.Threshold)
	opts.DebugDir = conf.OCR.DebugDir
	if *threshold >= 0 {
		if *threshold > 255 {
			fmt.Fprintln(os.Stderr, "-threshold must be between 0 and 255")
			os.Exit(2)
		}
		opts.Threshold = uint8(*threshold)
	}
	if *debugDir != "" {
		opts.DebugDir = *debugDir
	}
	mode := ocr.ModeReceipt
	mode.Languages = conf.OCR.Languages
	pipeline := ocr.NewPipeline(ocr.NewTesseractRecognizer(), mode, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := &printer{enc: json.NewEncoder(os.Stdout)}

	if *file != "" {
		r := scanFile(ctx, pipeline, *file)
		out.print(r)
		if r.Error != "" {
			os.Exit(1)
		}
		return
	}

	names := make(chan string, 100)
	go func() {
		defer close(names)
		if err := enqueueDir(ctx, *dir, names); err != nil {
			slog.Error("list directory", "dir", *dir, "error", err)
			return
		}
		if !*watch {
			return
		}
		if err := scan.Watch(ctx, *dir, 300*time.Millisecond, names); err != nil {
			slog.Error("watch failed", "dir", *dir, "error", err)
		}
	}()

	scan.RunWorkers(names, *workers, func(name string) {
		out.print(scanFile(ctx, pipeline, filepath.Join(*dir, name)))
	})
}

func enqueueDir(ctx context.Context, dir string, names chan<- string) error {
	files, err := scan.ListImageFiles(dir)
	if err != nil {
		return err
	}
	slog.Info("scanning directory", "dir", dir, "files", len(files))
	for _, name := range files {
		select {
		case names <- name:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func scanFile(ctx context.Context, p *ocr.Pipeline, path string) result {
	f, err := os.Open(path)
	if err != nil {
		return result{File: path, Error: err.Error()}
	}
	defer f.Close()
	return scanReader(ctx, p, path, f)
}

func scanReader(ctx context.Context, p *ocr.Pipeline, name string, r io.Reader) result {
	start := time.Now()
	items, err := p.ParseReceipt(ctx, r)
	if err != nil {
		slog.Warn("scan failed", "file", name, "error", err)
		return result{File: name, Error: err.Error()}
	}
	slog.Info("scanned", "file", name, "items", len(items), "duration_ms", time.Since(start).Milliseconds())
	return result{File: name, Items: items}
}
