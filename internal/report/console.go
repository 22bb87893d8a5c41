package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JosiahBull/dexy/pkg/models"
	"github.com/dustin/go-humanize"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

// PrintSummary writes a short colored summary of a finished scan
func PrintSummary(w io.Writer, results *models.ScanResults, written []string) {
	stats := results.Stats
	if stats == nil {
		stats = &models.ScanStatistics{}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sSCAN COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %sRoots:%s      %s\n", colorGray, colorReset, strings.Join(results.Roots, ", "))
	fmt.Fprintf(w, "  %sAlgorithm:%s  %s\n", colorGray, colorReset, results.Algorithm)
	fmt.Fprintf(w, "  %sFiles:%s      %s (%s)\n", colorGray, colorReset,
		humanize.Comma(int64(stats.FilesHashed)), humanize.Bytes(uint64(stats.BytesHashed)))
	fmt.Fprintf(w, "  %sDuration:%s   %s\n", colorGray, colorReset, FormatDuration(results.Duration))
	fmt.Fprintln(w)

	if stats.DuplicateGroups == 0 {
		fmt.Fprintf(w, "  %s%s✓ No duplicates found%s\n", colorBold, colorGreen, colorReset)
	} else {
		fmt.Fprintf(w, "  %s%sDUPLICATES: %d groups, %d files%s\n",
			colorBold, colorYellow, stats.DuplicateGroups, stats.DuplicateFiles, colorReset)
		if results.Attributes {
			fmt.Fprintf(w, "  %sReclaimable:%s %s\n", colorGray, colorReset, humanize.Bytes(uint64(stats.ReclaimableBytes)))
		}
	}
	if stats.Failures > 0 {
		fmt.Fprintf(w, "  %s%sFAILED: %d files%s\n", colorBold, colorOrange, stats.Failures, colorReset)
	}

	if len(written) > 0 {
		fmt.Fprintln(w)
		for _, path := range written {
			fmt.Fprintf(w, "  %sWrote:%s      %s\n", colorGray, colorReset, path)
		}
	}
	fmt.Fprintln(w)
}

// PrintDuplicates writes the duplicate groups of an index as plain text and
// returns how many groups were printed
func PrintDuplicates(w io.Writer, index *models.HashIndex) int {
	dupes := index.Duplicates()
	if dupes.Len() == 0 {
		fmt.Fprintln(w, "No duplicate files found.")
		return 0
	}

	var sb strings.Builder
	writeGroups(&sb, dupes)
	io.WriteString(w, sb.String())
	return dupes.Len()
}
