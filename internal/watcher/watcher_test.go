package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) <-chan string {
	t.Helper()
	changes := make(chan string, 16)

	w, err := New(path, 50*time.Millisecond, func(p string) { changes <- p })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return changes
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: mosaicing\n"), 0o644))

	changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("type: densification\n"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_NotifiesOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.yaml")

	changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("type: pinhole\n"), 0o644))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification for a created file")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: mosaicing\n"), 0o644))

	changes := startWatcher(t, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("type: mosaicing\nqueue_size: 1\n"), 0o644))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-changes:
		t.Error("expected a single notification for a burst of writes")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: mosaicing\n"), 0o644))

	changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("type: pinhole\n"), 0o644))

	select {
	case got := <-changes:
		t.Errorf("unexpected notification for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("", 0, func(string) {})
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "stage.yaml"), 0, nil)
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing", "stage.yaml"), 0, func(string) {})
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	w, err := New(path, 0, func(string) {})
	require.NoError(t, err)

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Equal(t, path, w.Path())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}
