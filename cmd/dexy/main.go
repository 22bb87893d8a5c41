package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JosiahBull/dexy/internal/config"
	"github.com/JosiahBull/dexy/internal/core"
	"github.com/JosiahBull/dexy/internal/digest"
	"github.com/JosiahBull/dexy/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

var (
	version = "0.1.0"
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s✗ Error:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dexy",
		Short: "dexy - find duplicate files by content hash",
		Long: `Recursively hash every file under one or more directories and group
files with identical content. The resulting index is written as JSON
(and optionally YAML, a text report or a SQLite database).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(dupesCmd())
	rootCmd.AddCommand(algorithmsCmd())

	return rootCmd
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		outDir          string
		name            string
		threadCount     int
		ignoreEmpty     bool
		includeHidden   bool
		loadAttributes  bool
		algorithm       string
		formats         []string
		duplicates      bool
		pretty          bool
		lenient         bool
		skipBrokenLinks bool
		configFile      string
		logFile         string
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>...",
		Short: "Scan directories and write the hash index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}

			// Override config with CLI flags
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.OutDir = outDir
			}
			if flags.Changed("name") {
				cfg.Name = name
			}
			if flags.Changed("thread-count") {
				cfg.Workers = threadCount
			}
			if flags.Changed("ignore-empty") {
				cfg.IgnoreEmpty = ignoreEmpty
			}
			if flags.Changed("include-hidden") {
				cfg.IncludeHidden = includeHidden
			}
			if flags.Changed("load-file-attributes") {
				cfg.LoadAttributes = loadAttributes
			}
			if flags.Changed("algorithm") {
				cfg.Algorithm = algorithm
			}
			if flags.Changed("format") {
				cfg.Formats = formats
			}
			if flags.Changed("duplicates") {
				cfg.Duplicates = duplicates
			}
			if flags.Changed("pretty") {
				cfg.Pretty = pretty
			}
			if flags.Changed("lenient") {
				cfg.Strict = !lenient
			}
			if flags.Changed("skip-broken-links") {
				cfg.SkipBrokenLinks = skipBrokenLinks
			}
			if flags.Changed("log-file") {
				cfg.Log.File = logFile
			}

			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}
			cfg.Roots = roots

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := newLogger(verbose, cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return runScan(cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "./", "Output directory")
	cmd.Flags().StringVarP(&name, "name", "n", "dexy", "Scan name, used for output file names")
	cmd.Flags().IntVarP(&threadCount, "thread-count", "t", 0, "Number of hashing workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&ignoreEmpty, "ignore-empty", "i", false, "Skip zero-length files")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include hidden files and directories")
	cmd.Flags().BoolVarP(&loadAttributes, "load-file-attributes", "l", false, "Add size, timestamps and type to every record")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", digest.Default, "Hash algorithm: "+strings.Join(digest.Names(), ", "))
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"json"}, "Output formats: "+strings.Join(config.SupportedFormats(), ", "))
	cmd.Flags().BoolVar(&duplicates, "duplicates", false, "Also write a document with only duplicate groups")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Record per-file failures instead of aborting")
	cmd.Flags().BoolVar(&skipBrokenLinks, "skip-broken-links", false, "Skip broken symlinks instead of aborting")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file (yaml, toml or json)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Also write logs to this rotating file")

	return cmd
}

// runScan runs the engine and writes the reports
func runScan(cfg *config.Config, logger *zap.Logger) error {
	printBanner(cfg)

	// Validate before creating anything on disk
	generator, err := report.NewGenerator(cfg, logger)
	if err != nil {
		return err
	}

	scanner := core.NewScanner(cfg, logger)
	scanner.SetProgressCallback(progressPrinter())

	results, err := scanner.Scan(context.Background(), cfg.Roots)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return err
	}

	written, err := generator.Generate(results)
	if err != nil {
		logger.Error("Failed to write reports", zap.Error(err))
		return err
	}

	report.PrintSummary(os.Stdout, results, written)
	return nil
}

// dupesCmd prints the duplicate groups of an existing index
func dupesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dupes <index>",
		Short: "Print duplicate groups from an existing JSON or YAML index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := report.Load(args[0])
			if err != nil {
				return err
			}
			report.PrintDuplicates(cmd.OutOrStdout(), index)
			return nil
		},
	}
}

// algorithmsCmd lists the supported hash algorithms
func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported hash algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range digest.Names() {
				algo, _ := digest.Get(name)
				marker := ""
				if name == digest.Default {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  %-8s %3d bits%s\n", name, algo.Size()*8, marker)
			}
		},
	}
}

// resolveRoots turns command line directories into absolute paths with
// symlinks resolved
func resolveRoots(args []string) ([]string, error) {
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		roots = append(roots, resolved)
	}
	return roots, nil
}

// printBanner prints scan settings
func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Printf("%s%sdexy%s %sv%s%s\n", colorBold, colorOrange, colorReset, colorGray, version, colorReset)
	fmt.Println()
	for _, root := range cfg.Roots {
		fmt.Printf("  %sRoot:%s       %s\n", colorGray, colorReset, root)
	}
	fmt.Printf("  %sAlgorithm:%s  %s\n", colorGray, colorReset, cfg.Algorithm)
	fmt.Printf("  %sWorkers:%s    %d\n", colorGray, colorReset, cfg.Workers)
	fmt.Println()
}

// progressPrinter renders progress on a single stderr line
func progressPrinter() core.ProgressCallback {
	return func(phase string, done int, path string) {
		switch phase {
		case "hashing":
			fmt.Fprintf(os.Stderr, "\r\033[K  %sHashing:%s    %d files %s%s%s",
				colorGray, colorReset, done, colorGray, truncatePath(path, 60), colorReset)
		case "complete":
			fmt.Fprintf(os.Stderr, "\r\033[K  %sHashed:%s     %d files", colorGray, colorReset, done)
		}
	}
}

// truncatePath keeps the tail of long paths
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
