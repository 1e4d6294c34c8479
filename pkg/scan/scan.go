// Package scan finds receipt images on disk and feeds them to workers,
// optionally watching a directory for new arrivals.
package scan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// IsSupportedExt reports whether name looks like an image we can decode.
func IsSupportedExt(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ListImageFiles returns the sorted names of supported images directly in dir.
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Watch sends the names of images created in dir once they have stopped
// changing for settle. It returns nil when ctx is done.
func Watch(ctx context.Context, dir string, settle time.Duration, out chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	slog.Info("watching directory", "dir", dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(ev.Name)
			if !IsSupportedExt(name) {
				continue
			}
			pending[name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) < settle {
					continue
				}
				select {
				case out <- name:
					delete(pending, name)
				case <-ctx.Done():
					return nil
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

// RunWorkers calls fn for every name received, using up to workers goroutines,
// and returns once names is closed and all calls have finished.
func RunWorkers(names <-chan string, workers int, fn func(name string)) {
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range names {
				fn(name)
			}
		}()
	}
	wg.Wait()
}
