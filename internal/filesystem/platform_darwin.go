//go:build darwin

package filesystem

import (
	"os"
	"syscall"
	"time"

	"github.com/JosiahBull/dexy/pkg/models"
)

// fileTimes gets access and birth time from the stat buffer (macOS)
func fileTimes(_ string, info os.FileInfo) timestamps {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return timestamps{created: models.TimestampUnavailable, accessed: models.TimestampUnavailable}
	}
	return timestamps{
		created:  unixOrUnavailable(time.Unix(stat.Birthtimespec.Unix())),
		accessed: unixOrUnavailable(time.Unix(stat.Atimespec.Unix())),
	}
}
