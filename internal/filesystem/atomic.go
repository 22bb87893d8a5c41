package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// Batch publishes several files together: either every target is replaced
// or none is. Files are staged as temporary siblings and only renamed into
// place by Commit.
type Batch struct {
	staged []stagedFile
}

type stagedFile struct {
	target  string
	tmpPath string
	backup  string // previous target moved aside during Commit
}

// Write stages data for target
func (b *Batch) Write(target string, data []byte, perm os.FileMode) error {
	return b.Build(target, perm, writeData(data))
}

// Build stages a temporary sibling of target filled by build. On failure the
// temporary file is removed and nothing is staged.
func (b *Batch) Build(target string, perm os.FileMode, build func(tmp *os.File) error) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	staged := false
	defer func() {
		if !staged {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := build(tmp); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	// a second Close after build closed it only returns ErrClosed
	_ = tmp.Close()

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	b.staged = append(b.staged, stagedFile{target: target, tmpPath: tmpPath})
	staged = true
	return nil
}

// Commit renames every staged file over its target and returns the targets.
// Existing targets are moved to a .bak sibling first; if any rename fails the
// committed files are removed, the backups restored and the remaining
// temporary files deleted.
func (b *Batch) Commit() ([]string, error) {
	defer func() { b.staged = nil }()

	for i := range b.staged {
		f := &b.staged[i]

		if info, err := os.Lstat(f.target); err == nil {
			if info.IsDir() {
				b.rollback(i)
				return nil, fmt.Errorf("replacing %s: target is a directory", f.target)
			}
			bak := f.target + ".bak"
			if err := os.Rename(f.target, bak); err != nil {
				b.rollback(i)
				return nil, fmt.Errorf("backing up %s: %w", f.target, err)
			}
			f.backup = bak
		}

		if err := os.Rename(f.tmpPath, f.target); err != nil {
			b.rollback(i)
			return nil, fmt.Errorf("renaming temp to target: %w", err)
		}
	}

	targets := make([]string, 0, len(b.staged))
	for _, f := range b.staged {
		if f.backup != "" {
			_ = os.Remove(f.backup)
		}
		targets = append(targets, f.target)
	}
	return targets, nil
}

// Discard removes every staged temporary file without touching the targets
func (b *Batch) Discard() {
	for _, f := range b.staged {
		_ = os.Remove(f.tmpPath)
	}
	b.staged = nil
}

// rollback undoes files [0, failed) and removes the temporaries of
// [failed, len). The file at failed may have its backup taken already.
func (b *Batch) rollback(failed int) {
	for i, f := range b.staged {
		if i < failed {
			_ = os.Remove(f.target)
		} else {
			_ = os.Remove(f.tmpPath)
		}
		if f.backup != "" && i <= failed {
			_ = os.Rename(f.backup, f.target)
		}
	}
}

func writeData(data []byte) func(tmp *os.File) error {
	return func(tmp *os.File) error {
		if _, err := tmp.Write(data); err != nil {
			return err
		}
		if err := tmp.Sync(); err != nil {
			return err
		}
		return tmp.Close()
	}
}
