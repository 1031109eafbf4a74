package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBrowserRenderer_RemovesProfileWhenLaunchFails(t *testing.T) {
	root := t.TempDir()
	r := &BrowserRenderer{
		log:         zap.NewNop(),
		bin:         filepath.Join(root, "no-such-browser"),
		headless:    true,
		navTimeout:  time.Second,
		profileRoot: root,
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Render(context.Background(), "https://shop.example/products/a")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("render did not return after a failed launch")
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "per-call profile dir is removed")
}

func TestBrowserRenderer_ProfileRootMissing(t *testing.T) {
	r := &BrowserRenderer{
		log:         zap.NewNop(),
		profileRoot: filepath.Join(t.TempDir(), "missing"),
	}
	_, err := r.Render(context.Background(), "https://shop.example/products/a")
	assert.ErrorContains(t, err, "create browser profile")
}
