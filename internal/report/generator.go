package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JosiahBull/dexy/internal/config"
	"github.com/JosiahBull/dexy/internal/filesystem"
	"github.com/JosiahBull/dexy/pkg/models"
	"go.uber.org/zap"
)

// ErrUnknownFormat is returned for a report format that has no writer
var ErrUnknownFormat = errors.New("unknown report format")

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator writes scan results to disk in the configured formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	for _, format := range cfg.Formats {
		if _, ok := extensions[strings.ToLower(format)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
		}
	}
	return &Generator{
		config: cfg,
		logger: logger,
	}, nil
}

// extensions maps each report format to its file extension
var extensions = map[string]string{
	"json":   ".json",
	"yaml":   ".yaml",
	"text":   ".txt",
	"sqlite": ".db",
}

// Generate writes every configured document and returns their absolute paths
func (g *Generator) Generate(results *models.ScanResults) ([]string, error) {
	if results == nil || results.Index == nil {
		return nil, errors.New("no scan results to report")
	}

	formats := g.config.Formats
	if len(formats) == 0 {
		formats = []string{"json"}
	}

	// every document is staged first so a failing format leaves no partial set
	var batch filesystem.Batch
	for _, format := range formats {
		format = strings.ToLower(format)
		outputFile := g.outputPath("", format)

		g.logger.Info("Generating report",
			zap.String("format", format),
			zap.String("output", outputFile))

		var err error
		switch format {
		case "json", "yaml":
			err = g.generateIndex(&batch, results.Index, format, outputFile)
		case "text":
			err = g.generateText(&batch, results, outputFile)
		case "sqlite":
			err = g.generateSQLite(&batch, results, outputFile)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownFormat, format)
		}
		if err != nil {
			batch.Discard()
			return nil, fmt.Errorf("failed to generate %s report: %w", format, err)
		}

		if g.config.Duplicates && (format == "json" || format == "yaml") {
			dupFile := g.outputPath(".duplicates", format)
			if err := g.generateIndex(&batch, results.Index.Duplicates(), format, dupFile); err != nil {
				batch.Discard()
				return nil, fmt.Errorf("failed to generate %s duplicates report: %w", format, err)
			}
		}
	}

	targets, err := batch.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to publish reports: %w", err)
	}

	written := make([]string, 0, len(targets))
	for _, target := range targets {
		written = append(written, absPath(target))
	}
	return written, nil
}

// generateIndex stages the hash to records document
func (g *Generator) generateIndex(batch *filesystem.Batch, index *models.HashIndex, format, outputFile string) error {
	var (
		data []byte
		err  error
	)
	if format == "json" && g.config.Pretty {
		data, err = marshalJSON(index, true)
	} else {
		data, err = Marshal(index, format)
	}
	if err != nil {
		return err
	}
	return batch.Write(outputFile, data, 0644)
}

// outputPath builds <out>/<name><suffix><ext>
func (g *Generator) outputPath(suffix, format string) string {
	return filepath.Join(g.config.OutDir, g.config.Name+suffix+extensions[format])
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
