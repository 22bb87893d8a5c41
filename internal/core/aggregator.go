package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/JosiahBull/dexy/pkg/models"
	"go.uber.org/zap"
)

// aggregator is the only goroutine that touches the index while a scan runs
type aggregator struct {
	index    *models.HashIndex
	failures []models.FileFailure
	strict   bool
	logger   *zap.Logger
	progress ProgressCallback

	filesHashed int
	bytesHashed int64
	lastReport  time.Time
}

func newAggregator(strict bool, logger *zap.Logger, progress ProgressCallback) *aggregator {
	return &aggregator{
		index:    models.NewHashIndex(),
		strict:   strict,
		logger:   logger,
		progress: progress,
	}
}

// run consumes outcomes until the channel is closed. In strict mode the
// first failure is returned and the remaining outcomes are abandoned.
func (a *aggregator) run(outcomes <-chan models.Outcome) error {
	for outcome := range outcomes {
		if !outcome.Succeeded() {
			err := outcome.Err
			if err == nil {
				err = fmt.Errorf("no record produced for %s", outcome.Candidate.Path)
			}
			if a.strict {
				return err
			}

			a.logger.Warn("Failed to process file",
				zap.String("path", outcome.Candidate.Path),
				zap.Error(err))
			a.failures = append(a.failures, models.FileFailure{
				Path:  outcome.Candidate.Path,
				Error: err.Error(),
			})
			continue
		}

		a.index.Add(outcome.Record)
		a.filesHashed++
		a.bytesHashed += outcome.Candidate.Size

		// Report progress every 100ms or every 100 files
		if time.Since(a.lastReport) > 100*time.Millisecond || a.filesHashed%100 == 0 {
			a.report("hashing", outcome.Record.Path)
		}
	}

	a.report("complete", "")
	return nil
}

// finish moves the collected state into results
func (a *aggregator) finish(results *models.ScanResults) {
	sort.Slice(a.failures, func(i, j int) bool {
		return a.failures[i].Path < a.failures[j].Path
	})

	results.Index = a.index
	results.Failures = a.failures
	results.Stats.FilesHashed = a.filesHashed
	results.Stats.BytesHashed = a.bytesHashed
	results.Stats.Failures = len(a.failures)
}

func (a *aggregator) report(phase, path string) {
	if a.progress == nil {
		return
	}
	a.progress(phase, a.filesHashed, path)
	a.lastReport = time.Now()
}
