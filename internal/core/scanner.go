package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JosiahBull/dexy/internal/config"
	"github.com/JosiahBull/dexy/internal/digest"
	"github.com/JosiahBull/dexy/internal/filesystem"
	"github.com/JosiahBull/dexy/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressCallback is called to report scan progress. It is always invoked
// from a single goroutine.
type ProgressCallback func(phase string, done int, path string)

// Scanner is the walk-and-hash engine
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config: cfg,
		logger: logger,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// Scan walks roots, hashes every eligible file and groups the results by
// hash. Scan returns only after every stage has exited. In strict mode any
// failure aborts the scan and no results are returned.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*models.ScanResults, error) {
	algo, err := s.prepare(roots)
	if err != nil {
		return nil, err
	}

	workers := s.config.Workers
	queueSize := s.config.EffectiveQueueSize()

	s.logger.Info("Starting scan",
		zap.Strings("roots", roots),
		zap.String("algorithm", algo.Name()),
		zap.Int("workers", workers),
		zap.Bool("strict", s.config.Strict))

	results := &models.ScanResults{
		StartTime:  time.Now(),
		Roots:      append([]string(nil), roots...),
		Algorithm:  algo.Name(),
		Attributes: s.config.LoadAttributes,
		Stats:      &models.ScanStatistics{WorkersUsed: workers},
	}

	walker := filesystem.NewWalker(s.walkPolicy(), s.logger)
	agg := newAggregator(s.config.Strict, s.logger, s.progressCallback)

	candidates := make(chan models.FileCandidate, queueSize)
	outcomes := make(chan models.Outcome, queueSize)

	g, gctx := errgroup.WithContext(ctx)

	// Walker
	g.Go(func() error {
		defer close(candidates)
		return walker.Walk(gctx, roots, func(c models.FileCandidate) error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case candidates <- c:
				return nil
			}
		})
	})

	// Worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return s.worker(gctx, algo, candidates, outcomes)
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(outcomes)
		return nil
	})

	// Aggregator
	g.Go(func() error {
		return agg.run(outcomes)
	})

	if err := g.Wait(); err != nil {
		s.logger.Debug("Scan aborted", zap.Error(err))
		return nil, err
	}

	agg.finish(results)
	s.applyWalkStats(results.Stats, walker.Stats())

	results.EndTime = time.Now()
	results.Duration = results.EndTime.Sub(results.StartTime)
	results.Summarize()

	s.logger.Info("Scan completed",
		zap.Duration("duration", results.Duration),
		zap.Int("files_hashed", results.Stats.FilesHashed),
		zap.Int("groups", results.Stats.Groups),
		zap.Int("duplicate_groups", results.Stats.DuplicateGroups),
		zap.Int("failures", results.Stats.Failures))

	return results, nil
}

// prepare validates everything a scan needs before any goroutine starts
func (s *Scanner) prepare(roots []string) (digest.Algorithm, error) {
	if len(roots) == 0 {
		return nil, config.ErrNoRoots
	}
	for _, root := range roots {
		if err := config.ValidateRoot(root); err != nil {
			return nil, err
		}
	}
	if s.config.Workers < 1 {
		return nil, fmt.Errorf("%w (got: %d)", config.ErrInvalidWorkers, s.config.Workers)
	}
	if s.config.QueueSize < 0 {
		return nil, fmt.Errorf("%w (got: %d)", config.ErrInvalidQueueSize, s.config.QueueSize)
	}

	name := s.config.Algorithm
	if name == "" {
		name = digest.Default
	}
	return digest.Get(name)
}

func (s *Scanner) walkPolicy() filesystem.WalkPolicy {
	policy := filesystem.WalkPolicy{
		IncludeHidden: s.config.IncludeHidden,
		IgnoreEmpty:   s.config.IgnoreEmpty,
		OnBrokenLink:  filesystem.BrokenLinkFail,
	}
	if s.config.SkipBrokenLinks {
		policy.OnBrokenLink = filesystem.BrokenLinkSkip
	}
	return policy
}

// worker hashes candidates until the queue is closed or the scan is aborted
func (s *Scanner) worker(ctx context.Context, algo digest.Algorithm, candidates <-chan models.FileCandidate, outcomes chan<- models.Outcome) error {
	for candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome := s.process(candidate, algo)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case outcomes <- outcome:
		}
	}
	return nil
}

// process hashes a single file and, when enabled, loads its attributes
func (s *Scanner) process(candidate models.FileCandidate, algo digest.Algorithm) models.Outcome {
	outcome := models.Outcome{Candidate: candidate}

	hash, err := digest.HashFile(candidate.Path, algo, s.config.HashBuffer)
	if err != nil {
		outcome.Err = &FileError{Path: candidate.Path, Op: "hash", Err: err}
		return outcome
	}

	record := &models.HashRecord{
		Hash: hash,
		Path: candidate.Path,
	}

	if s.config.LoadAttributes {
		attrs, err := filesystem.ReadAttributes(candidate.Path)
		if err != nil {
			outcome.Err = &FileError{Path: candidate.Path, Op: "attributes", Err: err}
			return outcome
		}
		record.Attributes = attrs
	}

	outcome.Record = record
	return outcome
}

func (s *Scanner) applyWalkStats(stats *models.ScanStatistics, walk filesystem.WalkStats) {
	stats.DirsWalked = walk.DirsWalked
	stats.SkippedHidden = walk.SkippedHidden
	stats.SkippedEmpty = walk.SkippedEmpty
	stats.SkippedOther = walk.SkippedOther
	stats.BrokenLinks = walk.BrokenLinks
}
