//go:build windows

package filesystem

import (
	"os"
	"syscall"
	"time"

	"github.com/JosiahBull/dexy/pkg/models"
)

// fileTimes gets access and creation time from the file attribute data (Windows)
func fileTimes(_ string, info os.FileInfo) timestamps {
	stat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return timestamps{created: models.TimestampUnavailable, accessed: models.TimestampUnavailable}
	}
	return timestamps{
		created:  unixOrUnavailable(time.Unix(0, stat.CreationTime.Nanoseconds())),
		accessed: unixOrUnavailable(time.Unix(0, stat.LastAccessTime.Nanoseconds())),
	}
}
