package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherDeliversReloadedConfig(t *testing.T) {
	defer goleak.VerifyNone(t)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cfg := DefaultConfig()
	cfg.UI.Theme = ThemeLight
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-w.Updates():
		require.NotNil(t, got)
		assert.Equal(t, ThemeLight, got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Equal(t, 1, w.Reloads())

	cancel()
	require.NoError(t, <-done)

	_, open := <-w.Updates()
	assert.False(t, open, "updates channel closes when Run returns")
}

func TestWatcherIgnoresOtherFilesAndInvalidConfig(t *testing.T) {
	defer goleak.VerifyNone(t)
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, 30*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: neon\n"), 0644))

	select {
	case got := <-w.Updates():
		t.Fatalf("unexpected reload: %+v", got)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Zero(t, w.Reloads())

	cancel()
	require.NoError(t, <-done)
}
