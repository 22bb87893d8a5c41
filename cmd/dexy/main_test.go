package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/JosiahBull/dexy/internal/config"
	"github.com/JosiahBull/dexy/internal/report"
)

func TestResolveRoots(t *testing.T) {
	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(wd, dir)
	if err != nil {
		t.Skipf("no relative path to temp dir: %v", err)
	}

	roots, err := resolveRoots([]string{rel})
	if err != nil {
		t.Fatalf("resolveRoots() error = %v", err)
	}
	if len(roots) != 1 || roots[0] != want {
		t.Errorf("resolveRoots(%q) = %v, want [%s]", rel, roots, want)
	}

	if _, err := resolveRoots([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestResolveRootsFollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	roots, err := resolveRoots([]string{link})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if roots[0] != want {
		t.Errorf("resolveRoots() = %s, want %s", roots[0], want)
	}
}

func TestScanCommand(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	for name, content := range map[string]string{"a": "same", "b": "same", "c": "other"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"scan", root, "-o", out, "-n", "run", "-t", "2", "--duplicates"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan error = %v", err)
	}

	index, err := report.Load(filepath.Join(out, "run.json"))
	if err != nil {
		t.Fatal(err)
	}
	if index.Len() != 2 || index.FileCount() != 3 {
		t.Errorf("index has %d groups and %d files, want 2 and 3", index.Len(), index.FileCount())
	}
	if _, err := os.Stat(filepath.Join(out, "run.duplicates.json")); err != nil {
		t.Errorf("duplicates document missing: %v", err)
	}

	var buf bytes.Buffer
	dupes := newRootCmd()
	dupes.SetOut(&buf)
	dupes.SetArgs([]string{"dupes", filepath.Join(out, "run.json")})
	if err := dupes.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2 copies") {
		t.Errorf("dupes output = %s", buf.String())
	}
}

func TestScanCommandBrokenLinkWritesNothing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	root := t.TempDir()
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"scan", root, "-o", out})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected scan to fail on a broken symlink")
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("no output expected after a failed scan, found %d files", len(entries))
	}
}

func TestScanCommandInvalidConfig(t *testing.T) {
	root := t.TempDir()

	// config errors are returned once and printed by main, not by the command
	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatal(err)
	}
	defer stderr.Close()
	saved := os.Stderr
	os.Stderr = stderr
	defer func() { os.Stderr = saved }()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"scan", root, "-o", t.TempDir(), "-t", "0"})
	err = cmd.Execute()
	os.Stderr = saved

	if !errors.Is(err, config.ErrInvalidWorkers) {
		t.Fatalf("Execute() error = %v, want ErrInvalidWorkers", err)
	}
	if !strings.HasPrefix(err.Error(), "invalid configuration: ") {
		t.Errorf("error = %q, want invalid configuration prefix", err)
	}

	printed, err := os.ReadFile(stderr.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(printed) != 0 {
		t.Errorf("command wrote to stderr: %q", printed)
	}
}

func TestAlgorithmsCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"algorithms"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"sha256", "256 bits (default)", "blake3", "sha512"} {
		if !strings.Contains(out, want) {
			t.Errorf("algorithms output missing %q: %s", want, out)
		}
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexy.log")
	logger, err := newLogger(false, config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hello from test")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file content = %s", data)
	}
}
