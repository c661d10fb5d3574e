package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/resource/printer"
)

var (
	dumpPath     string
	dumpDepth    int
	dumpNodeOnly bool
	dumpNoFields bool
	dumpKinds    bool
	dumpMaxBytes int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpPath, "path", "", `Dump only a subtree, e.g. "Item 2" or "Party member 0/CRE"`)
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&dumpNodeOnly, "node", false, "Dump the node at --path without its children")
	cmd.Flags().BoolVar(&dumpNoFields, "no-fields", false, "Show structure only")
	cmd.Flags().BoolVar(&dumpKinds, "kinds", false, "Show field encodings and node kinds")
	cmd.Flags().IntVar(&dumpMaxBytes, "max-bytes", printer.DefaultMaxValueBytes, "Truncate opaque values after this many bytes (0 = no limit)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <resource>",
		Short: "Print the structure tree and field values of a resource",
		Long: `The dump command prints every structure node with its fields, offsets
and decoded values.

Example:
  iectl dump SW1H01.ITM
  iectl dump IMOEN.CHR --path CRE --depth 2
  iectl dump SPWI112.SPL --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	doc, cleanup, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.MaxDepth = dumpDepth
	opts.ShowFields = !dumpNoFields
	opts.ShowKinds = dumpKinds
	opts.MaxValueBytes = dumpMaxBytes

	p := printer.New(doc, os.Stdout, opts)
	if dumpNodeOnly {
		return p.PrintNode(dumpPath)
	}
	return p.PrintTree(dumpPath)
}
