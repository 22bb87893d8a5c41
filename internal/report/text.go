package report

import (
	"fmt"
	"strings"

	"github.com/JosiahBull/dexy/internal/filesystem"
	"github.com/JosiahBull/dexy/pkg/models"
	"github.com/dustin/go-humanize"
)

// generateText stages a text report
func (g *Generator) generateText(batch *filesystem.Batch, results *models.ScanResults, outputFile string) error {
	return batch.Write(outputFile, []byte(renderText(results)), 0644)
}

func renderText(results *models.ScanResults) string {
	var sb strings.Builder
	stats := results.Stats
	if stats == nil {
		stats = &models.ScanStatistics{}
	}

	// Header
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  DEXY DUPLICATE FILE REPORT\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	for _, root := range results.Roots {
		sb.WriteString(fmt.Sprintf("Root:             %s\n", root))
	}
	sb.WriteString(fmt.Sprintf("Algorithm:        %s\n", results.Algorithm))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", results.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", results.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(results.Duration)))
	sb.WriteString(fmt.Sprintf("Files Hashed:     %s\n", humanize.Comma(int64(stats.FilesHashed))))
	sb.WriteString(fmt.Sprintf("Bytes Hashed:     %s\n", humanize.Bytes(uint64(stats.BytesHashed))))
	sb.WriteString(fmt.Sprintf("Distinct Hashes:  %s\n", humanize.Comma(int64(stats.Groups))))
	sb.WriteString(fmt.Sprintf("Duplicate Groups: %s\n", humanize.Comma(int64(stats.DuplicateGroups))))
	sb.WriteString(fmt.Sprintf("Duplicate Files:  %s\n", humanize.Comma(int64(stats.DuplicateFiles))))
	if results.Attributes {
		sb.WriteString(fmt.Sprintf("Reclaimable:      %s\n", humanize.Bytes(uint64(stats.ReclaimableBytes))))
	}
	sb.WriteString("\n")

	// Skipped entries
	sb.WriteString("SKIPPED\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("  Hidden:         %d\n", stats.SkippedHidden))
	sb.WriteString(fmt.Sprintf("  Empty:          %d\n", stats.SkippedEmpty))
	sb.WriteString(fmt.Sprintf("  Special:        %d\n", stats.SkippedOther))
	sb.WriteString(fmt.Sprintf("  Broken Links:   %d\n", stats.BrokenLinks))
	sb.WriteString("\n")

	// Duplicate groups
	dupes := results.Index.Duplicates()
	if dupes.Len() > 0 {
		sb.WriteString("DUPLICATE GROUPS\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")
		writeGroups(&sb, dupes)
	} else {
		sb.WriteString("No duplicate files found.\n\n")
	}

	// Failures (lenient mode)
	if len(results.Failures) > 0 {
		sb.WriteString("FAILURES\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, f := range results.Failures {
			sb.WriteString(fmt.Sprintf("  %s\n      %s\n", f.Path, f.Error))
		}
		sb.WriteString("\n")
	}

	// Performance stats
	sb.WriteString("PERFORMANCE\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Files/Second:     %.2f\n", stats.FilesPerSecond))
	sb.WriteString(fmt.Sprintf("Workers Used:     %d\n", stats.WorkersUsed))
	sb.WriteString(fmt.Sprintf("Directories:      %d\n", stats.DirsWalked))
	sb.WriteString("\n")

	// Footer
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("End of Report\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n")

	return sb.String()
}

// writeGroups lists every group in hash order
func writeGroups(sb *strings.Builder, index *models.HashIndex) {
	for i, hash := range index.Keys() {
		records := index.Group(hash)
		sb.WriteString(fmt.Sprintf("[%d] %s (%d copies", i+1, hash, len(records)))
		if attrs := records[0].Attributes; attrs != nil {
			sb.WriteString(fmt.Sprintf(", %s each", humanize.Bytes(uint64(attrs.Size))))
		}
		sb.WriteString(")\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, r := range records {
			sb.WriteString(fmt.Sprintf("  %s\n", r.Path))
		}
		sb.WriteString("\n")
	}
}
