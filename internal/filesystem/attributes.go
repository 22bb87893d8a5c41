package filesystem

import (
	"fmt"
	"os"
	"time"

	"github.com/JosiahBull/dexy/pkg/models"
)

// ReadAttributes loads the optional metadata of a file. The type tag comes
// from the path itself, so a symlink reports SymLink; size and timestamps
// come from the resolved target. Timestamps the platform cannot provide are
// set to models.TimestampUnavailable.
func ReadAttributes(path string) (*models.FileAttributes, error) {
	linfo, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	info := linfo
	if linfo.Mode()&os.ModeSymlink != 0 {
		info, err = os.Stat(path)
		if err != nil {
			return nil, &BrokenLinkError{Path: path, Err: err}
		}
	}

	times := fileTimes(path, info)

	return &models.FileAttributes{
		Size:         info.Size(),
		CreatedDate:  times.created,
		AccessedDate: times.accessed,
		EditDate:     unixOrUnavailable(info.ModTime()),
		FileType:     fileType(linfo),
	}, nil
}

// timestamps holds platform dependent times as Unix seconds
type timestamps struct {
	created  int64
	accessed int64
}

func fileType(info os.FileInfo) models.FileType {
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return models.FileTypeSymLink
	case info.IsDir():
		return models.FileTypeDirectory
	default:
		return models.FileTypeFile
	}
}

func unixOrUnavailable(t time.Time) int64 {
	if t.IsZero() || t.Before(time.Unix(0, 0)) {
		return models.TimestampUnavailable
	}
	return t.Unix()
}
