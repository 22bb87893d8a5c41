//go:build linux || darwin

package filesystem

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

func TestWalkerSkipsFIFO(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), "a")
	if err := unix.Mkfifo(filepath.Join(root, "pipe"), 0644); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	w := NewWalker(WalkPolicy{}, zap.NewNop())
	got, err := collect(t, w, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("Walk() = %v, want only the regular file", got)
	}
	if w.Stats().SkippedOther != 1 {
		t.Errorf("SkippedOther = %d, want 1", w.Stats().SkippedOther)
	}
}
