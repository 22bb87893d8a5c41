package models

// TimestampUnavailable is stored in a FileAttributes timestamp when the
// platform or filesystem cannot provide it.
const TimestampUnavailable int64 = -1

// FileType tags what kind of filesystem entry a path refers to
type FileType string

const (
	FileTypeSymLink   FileType = "SymLink"
	FileTypeDirectory FileType = "Directory"
	FileTypeFile      FileType = "File"
)

// FileCandidate is a regular file discovered by the walker and eligible for hashing
type FileCandidate struct {
	Path string // Absolute path as reached from the scan root
	Size int64  // Size in bytes of the (symlink-resolved) file
	Root string // Scan root the file was found under
}

// FileAttributes holds optional per-file metadata.
// Timestamps are Unix seconds, or TimestampUnavailable.
type FileAttributes struct {
	Size         int64    `json:"size" yaml:"size"`
	CreatedDate  int64    `json:"created_date" yaml:"created_date"`
	AccessedDate int64    `json:"accessed_date" yaml:"accessed_date"`
	EditDate     int64    `json:"edit_date" yaml:"edit_date"`
	FileType     FileType `json:"file_type" yaml:"file_type"`
}

// HashRecord is the result of hashing one file. It is never modified after
// a worker produces it.
type HashRecord struct {
	Hash       string          `json:"hash" yaml:"hash"`
	Path       string          `json:"path" yaml:"path"`
	Attributes *FileAttributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Outcome is what a worker reports for a single candidate: either a record
// or the error that prevented one.
type Outcome struct {
	Candidate FileCandidate
	Record    *HashRecord
	Err       error
}

// Succeeded reports whether the outcome carries a record
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Record != nil
}
