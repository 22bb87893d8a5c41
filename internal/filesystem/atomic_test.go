package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func commitOne(t *testing.T, target string, data string) {
	t.Helper()
	var b Batch
	if err := b.Write(target, []byte(data), 0644); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := b.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestBatchOverwrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out.json")

	commitOne(t, target, "first")
	commitOne(t, target, "second")

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target in the directory, found %d entries", len(entries))
	}
}

func TestBatchStagedFilesInvisibleUntilCommit(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.txt")

	var batch Batch
	if err := batch.Write(a, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := batch.Write(b, []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{a, b} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s visible before Commit", p)
		}
	}

	targets, err := batch.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(targets) != 2 || targets[0] != a || targets[1] != b {
		t.Errorf("Commit() = %v, want [%s %s]", targets, a, b)
	}
}

func TestBatchBuildFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.db")
	boom := errors.New("boom")

	var b Batch
	err := b.Build(target, 0644, func(tmp *os.File) error {
		if _, err := tmp.WriteString("partial"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Build() error = %v, want %v", err, boom)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target should not exist after a failed build")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestBatchBuildReopenByName(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")

	var b Batch
	err := b.Build(target, 0600, func(tmp *os.File) error {
		if err := tmp.Close(); err != nil {
			return err
		}
		return os.WriteFile(tmp.Name(), []byte("by name"), 0600)
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "by name" {
		t.Errorf("content = %q", got)
	}
}

func TestBatchDiscard(t *testing.T) {
	dir := t.TempDir()

	var b Batch
	if err := b.Write(filepath.Join(dir, "out.json"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	b.Discard()

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Discard() left %d entries", len(entries))
	}
}

func TestBatchCommitRollsBack(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "out.json")
	blocked := filepath.Join(dir, "out.txt")

	// an earlier run's document must survive the failed commit
	if err := os.WriteFile(first, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	var b Batch
	if err := b.Write(first, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := b.Write(blocked, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Commit(); err == nil {
		t.Fatal("Commit() expected an error when a target is a directory")
	}

	got, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("previous document missing after rollback: %v", err)
	}
	if string(got) != "previous" {
		t.Errorf("content = %q, want %q", got, "previous")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") || strings.HasSuffix(e.Name(), ".bak") {
			t.Errorf("leftover file %s", e.Name())
		}
	}
}
