package models

import "time"

// ScanResults contains the complete result of one scan
type ScanResults struct {
	// Summary
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Roots     []string      `json:"roots"`
	Algorithm string        `json:"algorithm"`

	// Index is the final hash to files mapping. Read-only once Scan returns.
	Index *HashIndex `json:"-"`

	// Failures is only populated in lenient mode
	Failures []FileFailure `json:"failures,omitempty"`

	// Statistics
	Stats *ScanStatistics `json:"statistics"`

	// Attributes reports whether records carry FileAttributes
	Attributes bool `json:"attributes"`
}

// FileFailure records a file that could not be hashed in lenient mode
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanStatistics contains scan counters
type ScanStatistics struct {
	// Walk statistics
	DirsWalked    int `json:"dirs_walked"`
	SkippedHidden int `json:"skipped_hidden"`
	SkippedEmpty  int `json:"skipped_empty"`
	SkippedOther  int `json:"skipped_other"`
	BrokenLinks   int `json:"broken_links"`

	// Hashing statistics
	FilesHashed int   `json:"files_hashed"`
	BytesHashed int64 `json:"bytes_hashed"`
	Failures    int   `json:"failures"`

	// Grouping statistics
	Groups           int   `json:"groups"`
	DuplicateGroups  int   `json:"duplicate_groups"`
	DuplicateFiles   int   `json:"duplicate_files"`
	ReclaimableBytes int64 `json:"reclaimable_bytes"`

	// Performance
	FilesPerSecond float64 `json:"files_per_second"`
	WorkersUsed    int     `json:"workers_used"`
}

// Summarize fills the grouping statistics from the index. ReclaimableBytes
// is the size of every duplicate beyond the first in its group, taken from
// the attributes when they were loaded.
func (r *ScanResults) Summarize() {
	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	if r.Index == nil {
		return
	}

	r.Stats.Groups = r.Index.Len()
	r.Stats.DuplicateGroups = 0
	r.Stats.DuplicateFiles = 0
	r.Stats.ReclaimableBytes = 0

	for _, records := range r.Index.Groups() {
		if len(records) < 2 {
			continue
		}
		r.Stats.DuplicateGroups++
		r.Stats.DuplicateFiles += len(records)
		if attrs := records[0].Attributes; attrs != nil {
			r.Stats.ReclaimableBytes += attrs.Size * int64(len(records)-1)
		}
	}

	if secs := r.Duration.Seconds(); secs > 0 {
		r.Stats.FilesPerSecond = float64(r.Stats.FilesHashed) / secs
	}
}
