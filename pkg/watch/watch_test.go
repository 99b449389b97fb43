package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/watch"
)

func isRust(path string) bool {
	return strings.HasSuffix(path, ".rs")
}

func startWatcher(t *testing.T, root string) <-chan []string {
	t.Helper()

	w, err := watch.New(
		watch.WithDebounce(20*time.Millisecond),
		watch.WithLogger(logging.Discard()),
		watch.WithFilter(isRust),
		watch.WithSkipDirs("target"),
	)
	require.NoError(t, err)
	require.NoError(t, w.Add(root))

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-batches:
		return paths
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch batch")
		return nil
	}
}

func TestWatcher_ReportsChangedRustFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	batches := startWatcher(t, root)

	path := filepath.Join(root, "lib.rs")
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n"), 0o644))

	assert.Equal(t, []string{path}, waitBatch(t, batches))
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	batches := startWatcher(t, root)

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "db.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn f() {}\n"), 0o644))

	assert.Equal(t, []string{path}, waitBatch(t, batches))
}
