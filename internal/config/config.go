package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/JosiahBull/dexy/internal/digest"
)

var (
	ErrNoRoots          = errors.New("at least one scan root is required")
	ErrRelativeRoot     = errors.New("scan root must be an absolute path")
	ErrInvalidWorkers   = errors.New("worker count must be at least 1")
	ErrInvalidQueueSize = errors.New("queue size must not be negative")
)

// Config represents the scan configuration
type Config struct {
	// Scan settings
	Roots          []string `mapstructure:"roots"`           // absolute directories to scan
	Workers        int      `mapstructure:"workers"`         // number of hashing goroutines
	QueueSize      int      `mapstructure:"queue_size"`      // candidate queue capacity (0 = 2*workers)
	IgnoreEmpty    bool     `mapstructure:"ignore_empty"`    // skip zero-length files
	IncludeHidden  bool     `mapstructure:"include_hidden"`  // descend into dot files and directories
	LoadAttributes bool     `mapstructure:"load_attributes"` // stat every file for size and timestamps
	Algorithm      string   `mapstructure:"algorithm"`       // sha256, sha512, sha1, blake3
	HashBuffer     int      `mapstructure:"hash_buffer"`     // read buffer size in bytes

	// Failure policy
	Strict          bool `mapstructure:"strict"`            // abort on the first failed file
	SkipBrokenLinks bool `mapstructure:"skip_broken_links"` // skip broken symlinks instead of aborting

	// Report settings
	Name       string   `mapstructure:"name"`       // base name of output files
	OutDir     string   `mapstructure:"out"`        // output directory
	Formats    []string `mapstructure:"formats"`    // json, yaml, text, sqlite
	Duplicates bool     `mapstructure:"duplicates"` // also write the duplicates-only document
	Pretty     bool     `mapstructure:"pretty"`     // indent JSON output

	// Logging settings
	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds log file settings. Console logging is controlled by the
// --verbose flag.
type LogConfig struct {
	File       string `mapstructure:"file"`        // rotate logs into this file when set
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // size before rotation
	MaxBackups int    `mapstructure:"max_backups"` // rotated files to keep
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Supported report formats
var supportedFormats = []string{"json", "yaml", "text", "sqlite"}

// LoadConfig loads configuration from defaults, environment variables and
// an optional config file. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("roots", []string{})
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("queue_size", 0)
	v.SetDefault("ignore_empty", false)
	v.SetDefault("include_hidden", false)
	v.SetDefault("load_attributes", false)
	v.SetDefault("algorithm", digest.Default)
	v.SetDefault("hash_buffer", digest.DefaultBufferSize)
	v.SetDefault("strict", true)
	v.SetDefault("skip_broken_links", false)
	v.SetDefault("name", "dexy")
	v.SetDefault("out", "./")
	v.SetDefault("formats", []string{"json"})
	v.SetDefault("duplicates", false)
	v.SetDefault("pretty", false)

	// Log defaults
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// Read environment variables
	v.SetEnvPrefix("DEXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EffectiveQueueSize returns the candidate queue capacity
func (c *Config) EffectiveQueueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return c.Workers * 2
}

// HasFormat checks if a report format is enabled
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Validate checks the configuration before a scan starts. Roots must be
// absolute, existing, readable directories.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoots
	}
	for _, root := range c.Roots {
		if err := ValidateRoot(root); err != nil {
			return err
		}
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w (got: %d)", ErrInvalidWorkers, c.Workers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w (got: %d)", ErrInvalidQueueSize, c.QueueSize)
	}
	if c.HashBuffer < 1 {
		return fmt.Errorf("hash buffer must be positive (got: %d)", c.HashBuffer)
	}

	if _, err := digest.Get(c.Algorithm); err != nil {
		return err
	}

	for _, format := range c.Formats {
		if !isSupportedFormat(format) {
			return fmt.Errorf("unsupported report format: %s (supported: %s)",
				format, strings.Join(supportedFormats, ", "))
		}
	}

	if strings.TrimSpace(c.Name) == "" {
		return errors.New("scan name must not be empty")
	}
	if strings.ContainsRune(c.Name, filepath.Separator) {
		return fmt.Errorf("scan name must not contain a path separator: %s", c.Name)
	}

	return nil
}

// ValidateRoot checks a single scan root
func ValidateRoot(root string) error {
	if !filepath.IsAbs(root) {
		return fmt.Errorf("%w: %s", ErrRelativeRoot, root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan root %s is not a directory", root)
	}

	dir, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("scan root %s is not readable: %w", root, err)
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("scan root %s is not readable: %w", root, err)
	}

	return nil
}

// SupportedFormats returns the list of report formats
func SupportedFormats() []string {
	return append([]string(nil), supportedFormats...)
}

// isSupportedFormat checks if format is a known report format
func isSupportedFormat(format string) bool {
	for _, f := range supportedFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
