//go:build !linux && !darwin && !windows

package filesystem

import (
	"os"

	"github.com/JosiahBull/dexy/pkg/models"
)

// fileTimes is the fallback for platforms without a known stat layout
func fileTimes(_ string, _ os.FileInfo) timestamps {
	return timestamps{
		created:  models.TimestampUnavailable,
		accessed: models.TimestampUnavailable,
	}
}
