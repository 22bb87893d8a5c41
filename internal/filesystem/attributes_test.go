package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JosiahBull/dexy/pkg/models"
)

func TestReadAttributesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	writeFile(t, path, "hello world")

	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	attrs, err := ReadAttributes(path)
	if err != nil {
		t.Fatalf("ReadAttributes() error = %v", err)
	}

	if attrs.Size != 11 {
		t.Errorf("Size = %d, want 11", attrs.Size)
	}
	if attrs.FileType != models.FileTypeFile {
		t.Errorf("FileType = %s, want File", attrs.FileType)
	}
	if attrs.EditDate != mtime.Unix() {
		t.Errorf("EditDate = %d, want %d", attrs.EditDate, mtime.Unix())
	}
	if attrs.AccessedDate != models.TimestampUnavailable && attrs.AccessedDate <= 0 {
		t.Errorf("AccessedDate = %d, want a timestamp or the sentinel", attrs.AccessedDate)
	}
	if attrs.CreatedDate != models.TimestampUnavailable && attrs.CreatedDate <= 0 {
		t.Errorf("CreatedDate = %d, want a timestamp or the sentinel", attrs.CreatedDate)
	}
}

func TestReadAttributesSymlink(t *testing.T) {
	skipWithoutSymlinks(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	writeFile(t, target, "1234")
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	attrs, err := ReadAttributes(link)
	if err != nil {
		t.Fatalf("ReadAttributes() error = %v", err)
	}
	if attrs.FileType != models.FileTypeSymLink {
		t.Errorf("FileType = %s, want SymLink", attrs.FileType)
	}
	if attrs.Size != 4 {
		t.Errorf("Size = %d, want size of the target (4)", attrs.Size)
	}
}

func TestReadAttributesDirectory(t *testing.T) {
	attrs, err := ReadAttributes(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if attrs.FileType != models.FileTypeDirectory {
		t.Errorf("FileType = %s, want Directory", attrs.FileType)
	}
}

func TestReadAttributesErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadAttributes(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadAttributes(missing) error = %v, want ErrNotExist", err)
	}

	skipWithoutSymlinks(t)
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), link); err != nil {
		t.Fatal(err)
	}
	var linkErr *BrokenLinkError
	if _, err := ReadAttributes(link); !errors.As(err, &linkErr) {
		t.Errorf("ReadAttributes(dangling) error = %v, want *BrokenLinkError", err)
	}
}

func TestUnixOrUnavailable(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int64
	}{
		{"zero", time.Time{}, models.TimestampUnavailable},
		{"before epoch", time.Unix(-100, 0), models.TimestampUnavailable},
		{"epoch", time.Unix(0, 0), 0},
		{"normal", time.Unix(1700000000, 500), 1700000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unixOrUnavailable(tt.in); got != tt.want {
				t.Errorf("unixOrUnavailable() = %d, want %d", got, tt.want)
			}
		})
	}
}
