package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JosiahBull/dexy/pkg/models"
	"go.uber.org/zap"
)

// BrokenLinkPolicy decides what the walker does with a symlink whose target
// cannot be resolved
type BrokenLinkPolicy int

const (
	// BrokenLinkFail aborts the walk with a *BrokenLinkError
	BrokenLinkFail BrokenLinkPolicy = iota
	// BrokenLinkSkip logs the link, counts it and carries on
	BrokenLinkSkip
)

// WalkPolicy holds the filters applied while walking
type WalkPolicy struct {
	IncludeHidden bool
	IgnoreEmpty   bool
	OnBrokenLink  BrokenLinkPolicy
}

// BrokenLinkError is returned when a symlink target cannot be resolved
type BrokenLinkError struct {
	Path string
	Err  error
}

func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("broken symlink %s: %v", e.Path, e.Err)
}

func (e *BrokenLinkError) Unwrap() error {
	return e.Err
}

// WalkStats counts what the walker visited and skipped
type WalkStats struct {
	DirsWalked    int
	SkippedHidden int
	SkippedEmpty  int
	SkippedOther  int
	BrokenLinks   int
}

// Walker walks directory trees and emits the regular files to hash.
// A Walker is used by one goroutine at a time.
type Walker struct {
	policy WalkPolicy
	logger *zap.Logger
	stats  WalkStats
}

// NewWalker creates a new filesystem walker
func NewWalker(policy WalkPolicy, logger *zap.Logger) *Walker {
	return &Walker{
		policy: policy,
		logger: logger,
	}
}

// Stats returns the counters of the last walk. Only meaningful once Walk returned.
func (w *Walker) Stats() WalkStats {
	return w.stats
}

// Walk visits every root in turn and calls emit for each eligible regular
// file. Symlinks are followed. An error from emit, an unreadable directory
// or (under BrokenLinkFail) a broken link stops the walk.
func (w *Walker) Walk(ctx context.Context, roots []string, emit func(models.FileCandidate) error) error {
	w.stats = WalkStats{}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to stat root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("root %s is not a directory", root)
		}

		w.logger.Debug("Walking root", zap.String("root", root))
		if err := w.walkDir(ctx, root, root, emit); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) walkDir(ctx context.Context, root, dir string, emit func(models.FileCandidate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	w.stats.DirsWalked++

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		path := filepath.Join(dir, name)

		if !w.policy.IncludeHidden && isHidden(name) {
			w.stats.SkippedHidden++
			w.logger.Debug("Skipping hidden path", zap.String("path", path))
			continue
		}

		info, err := w.resolve(path, entry)
		if err != nil {
			var linkErr *BrokenLinkError
			if errors.As(err, &linkErr) && w.policy.OnBrokenLink == BrokenLinkSkip {
				w.stats.BrokenLinks++
				w.logger.Warn("Skipping broken symlink", zap.String("path", path), zap.Error(linkErr.Err))
				continue
			}
			return err
		}

		switch {
		case info.IsDir():
			if err := w.walkDir(ctx, root, path, emit); err != nil {
				return err
			}

		case info.Mode().IsRegular():
			if w.policy.IgnoreEmpty && info.Size() == 0 {
				w.stats.SkippedEmpty++
				continue
			}
			candidate := models.FileCandidate{
				Path: path,
				Size: info.Size(),
				Root: root,
			}
			if err := emit(candidate); err != nil {
				return err
			}

		default:
			// FIFOs, sockets and devices are never opened
			w.stats.SkippedOther++
			w.logger.Debug("Skipping special file",
				zap.String("path", path),
				zap.String("mode", info.Mode().String()))
		}
	}

	return nil
}

// resolve returns the FileInfo of the entry, following a symlink to its target
func (w *Walker) resolve(path string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &BrokenLinkError{Path: path, Err: err}
		}
		return info, nil
	}

	info, err := entry.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info, nil
}

// isHidden checks if a file is hidden
func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
