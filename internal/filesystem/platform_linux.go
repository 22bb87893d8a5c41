//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/JosiahBull/dexy/pkg/models"
)

// fileTimes reads atime from the stat buffer and the birth time through
// statx, which not every kernel or filesystem reports
func fileTimes(path string, info os.FileInfo) timestamps {
	ts := timestamps{
		created:  models.TimestampUnavailable,
		accessed: models.TimestampUnavailable,
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		ts.accessed = unixOrUnavailable(time.Unix(stat.Atim.Unix()))
	}

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		ts.created = unixOrUnavailable(time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)))
	}

	return ts
}
