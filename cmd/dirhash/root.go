package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dirhash "github.com/mattkeenan/dirhash/pkg"
	"github.com/mattkeenan/dirhash/internal/logging"
)

var (
	flagInclude   []string
	flagExclude   []string
	flagThreads   int
	flagHasher    string
	flagTolerance string
	flagConfig    string
	flagVerbose   bool

	rootCmd = &cobra.Command{
		Use:   "dirhash [path...]",
		Short: "Compute a deterministic content digest for one or more directory trees",
		Long: `dirhash walks one or more directory trees in parallel, applies the
configured filters, and hashes the surviving files into a single composite
digest suitable for build-system and content-cache change detection.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runHash,
	}
)

func init() {
	rootCmd.Flags().StringSliceVarP(&flagInclude, "include", "i", nil, "glob matched against basenames to include (repeatable)")
	rootCmd.Flags().StringSliceVarP(&flagExclude, "exclude", "x", nil, "glob matched against basenames to exclude (repeatable)")
	rootCmd.Flags().IntVarP(&flagThreads, "threads", "t", 0, "worker count (0 = hardware concurrency)")
	rootCmd.Flags().StringVar(&flagHasher, "hasher", "blake3", "hasher to use: blake3, sha256, sha512")
	rootCmd.Flags().StringVar(&flagTolerance, "tolerance", "log", "error tolerance: log, silent, stop")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to an ini config file of defaults")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runHash(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logging.SetLevel(logging.LevelDebug)
	}
	logger := logging.Get("dirhash.cli")

	builder := dirhash.NewOptionsBuilder()

	if flagConfig != "" {
		fc, err := dirhash.LoadFileConfig(flagConfig)
		if err != nil {
			return err
		}
		fc.ApplyTo(builder)
		if !cmd.Flags().Changed("hasher") {
			flagHasher = fc.HashAlgorithm
		}
		if !cmd.Flags().Changed("tolerance") {
			flagTolerance = fc.Tolerance
		}
	}

	for _, pattern := range flagInclude {
		f, err := dirhash.NewFileFilter(pattern)
		if err != nil {
			return err
		}
		builder.WithInclude(f)
	}
	for _, pattern := range flagExclude {
		f, err := dirhash.NewFileFilter(pattern)
		if err != nil {
			return err
		}
		builder.WithExclude(f)
	}

	for _, root := range args {
		entry, err := dirhash.NewEntry(root, nil, nil, nil)
		if err != nil {
			return err
		}
		builder.WithEntry(entry)
	}

	if flagThreads > 0 {
		builder.WithThreads(flagThreads)
	}
	builder.WithTolerance(parseTolerance(flagTolerance))

	w, err := builder.Walker()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := w.Collect(ctx); err != nil {
		return fmt.Errorf("collecting: %w", err)
	}

	hasherFactory, err := dirhash.GetHasherFactory(flagHasher)
	if err != nil {
		return err
	}

	digest, err := w.Hash(ctx, nil, hasherFactory)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	stats := w.Stats()
	logger.Info("dirhash: run complete", "files", stats.FilesCollected, "ignored", stats.FilesIgnored, "bytes", stats.BytesHashed)

	for _, ig := range w.Ignored() {
		fmt.Fprintf(os.Stderr, "dirhash: ignored %s: %v\n", ig.Path, ig.Err)
	}

	fmt.Println(hex.EncodeToString(digest))
	return nil
}

func parseTolerance(s string) dirhash.Tolerance {
	switch s {
	case "silent":
		return dirhash.DoNotLogErrors
	case "stop":
		return dirhash.StopOnErrors
	default:
		return dirhash.LogErrors
	}
}
