package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/catalog"
	"github.com/joshuapare/iekit/cmd/iectl/logger"
	"github.com/joshuapare/iekit/formats"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/tlk"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	tolerant    bool
	profilePath string
	engineName  string
	overrideDir string
	tlkPath     string
)

var rootCmd = &cobra.Command{
	Use:   "iectl",
	Short: "Inspect and edit Infinity Engine resource files",
	Long: `iectl reads, prints, verifies and edits Infinity Engine resources
(CRE, CHR, ITM, SPL, CHU, GAM, STO). Edits keep every offset, count and
index in the file consistent and leave untouched bytes as they were.

Settings can come from a YAML profile (--profile or $IECTL_PROFILE);
flags override the profile.`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	flags.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	flags.BoolVar(&tolerant, "tolerant", false, "Keep unsupported embedded records as opaque bytes")
	flags.StringVar(&profilePath, "profile", "", "YAML profile with engine, override_dir, tlk and log settings")
	flags.StringVarP(&engineName, "engine", "e", "", "Game engine (bg1, bg2, pst, iwd, iwd2, ee)")
	flags.StringVar(&overrideDir, "override", "", "Override directory used as the resource catalog")
	flags.StringVar(&tlkPath, "tlk", "", "dialog.tlk used to resolve string references")
}

func execute() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup merges the profile under the flags and starts the logger.
func setup(cmd *cobra.Command) error {
	path := profilePath
	if path == "" {
		path = os.Getenv(profileEnv)
	}
	if path == "" {
		return nil
	}
	p, err := loadProfile(path)
	if err != nil {
		return err
	}
	applyProfile(cmd.Flags(), p)

	level, err := p.Log.level()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Enabled: p.Log.Enabled, LogDir: p.Log.Dir, Level: level}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("profile loaded", "path", path, "engine", engineName, "command", cmd.Name())
	return nil
}

// readOptions builds the read options from the global settings. The
// cleanup function releases the string table.
func readOptions() ([]resource.Option, func(), error) {
	opts := []resource.Option{
		resource.WithLogger(logger.L),
		resource.WithTolerant(tolerant),
	}
	cleanup := func() {}

	if engineName != "" {
		e, ok := types.ParseEngine(engineName)
		if !ok {
			return nil, cleanup, fmt.Errorf("unknown engine %q (want bg1, bg2, pst, iwd, iwd2 or ee)", engineName)
		}
		opts = append(opts, resource.WithEngine(e))
	}
	if overrideDir != "" {
		dir, err := catalog.NewDir(overrideDir)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, resource.WithCatalog(dir))
	}
	if tlkPath != "" {
		table, err := tlk.Open(tlkPath)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, resource.WithStrings(table))
		cleanup = func() { _ = table.Close() }
	}
	return opts, cleanup, nil
}

// openDocument reads path with the global settings.
func openDocument(path string) (*resource.Document, func(), error) {
	opts, cleanup, err := readOptions()
	if err != nil {
		return nil, cleanup, err
	}
	printVerbose("Reading %s\n", path)
	doc, err := formats.ReadFile(path, opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to read resource: %w", err)
	}
	logger.Debug("read", "file", path, "nodes", doc.Len(), "size", doc.Size())
	return doc, cleanup, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
