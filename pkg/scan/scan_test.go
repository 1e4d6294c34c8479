package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedExt(t *testing.T) {
	assert.True(t, IsSupportedExt("a.JPG"))
	assert.True(t, IsSupportedExt("b.png"))
	assert.False(t, IsSupportedExt("notes.txt"))
	assert.False(t, IsSupportedExt("noext"))
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.png", "a.jpg", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.png"), 0o755))

	got, err := ListImageFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, got)

	_, err = ListImageFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunWorkers(t *testing.T) {
	names := make(chan string, 5)
	for _, n := range []string{"1", "2", "3", "4", "5"} {
		names <- n
	}
	close(names)

	var mu sync.Mutex
	var seen []string
	RunWorkers(names, 3, func(name string) {
		mu.Lock()
		seen = append(seen, name)
		mu.Unlock()
	})
	sort.Strings(seen)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, seen)
}

func TestWatchEmitsNewImages(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := make(chan string, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, 50*time.Millisecond, out) }()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "receipt.png"), []byte("x"), 0o600))

	select {
	case name := <-out:
		assert.Equal(t, "receipt.png", name)
	case <-ctx.Done():
		t.Fatal("no file reported")
	}
	cancel()
	assert.NoError(t, <-done)
}
