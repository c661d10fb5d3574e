package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/cmd/iectl/logger"
	"github.com/joshuapare/iekit/index"
)

var (
	indexWorkers int
	indexLookup  string
)

// indexedExtensions are the resource types that carry creature records.
var indexedExtensions = map[string]bool{".CRE": true, ".CHR": true, ".GAM": true}

func init() {
	cmd := newIndexCmd()
	cmd.Flags().IntVarP(&indexWorkers, "workers", "w", 0, "Parallel readers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&indexLookup, "lookup", "", "Print only the resources declaring this script name")
	rootCmd.AddCommand(cmd)
}

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <dir|file>...",
		Short: "Map creature script names to the resources that declare them",
		Long: `The index command reads every CRE, CHR and GAM file below the given
paths and lists which resources declare each script name.

Example:
  iectl index override/
  iectl index override/ --lookup imoen2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), args)
		},
	}
	return cmd
}

// collectSources expands directories into the indexable files below them.
func collectSources(paths []string) ([]index.Source, error) {
	var sources []index.Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, index.FileSource(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && indexedExtensions[strings.ToUpper(filepath.Ext(path))] {
				sources = append(sources, index.FileSource(path))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func runIndex(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sources, err := collectSources(args)
	if err != nil {
		return err
	}
	opts, cleanup, err := readOptions()
	if err != nil {
		return err
	}
	defer cleanup()

	printVerbose("Indexing %d file(s)\n", len(sources))
	idx, err := index.Build(ctx, sources, indexWorkers, opts...)
	if err != nil {
		return err
	}
	logger.Info("indexed", "files", len(sources), "names", idx.Len())

	names := idx.Names()
	if indexLookup != "" {
		names = []string{indexLookup}
	}
	if jsonOut {
		out := make(map[string][]string, len(names))
		for _, n := range names {
			out[n] = idx.Lookup(n)
		}
		return printJSON(out)
	}
	for _, n := range names {
		printInfo("%s: %s\n", n, strings.Join(idx.Lookup(n), ", "))
	}
	return nil
}
