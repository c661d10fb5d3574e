package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/formats"
)

func init() {
	rootCmd.AddCommand(newRoundtripCmd())
}

func newRoundtripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip <resource>...",
		Short: "Read and re-serialize resources, reporting any byte that changes",
		Long: `The roundtrip command reads each resource and writes it back in memory.
An unmodified document must serialize to exactly the bytes it was read from.

Example:
  iectl roundtrip override/*.CRE`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoundtrip(args)
		},
	}
	return cmd
}

// firstDiff returns the first offset where a and b differ, or -1.
func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func runRoundtrip(args []string) error {
	opts, cleanup, err := readOptions()
	if err != nil {
		return err
	}
	defer cleanup()

	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := formats.Read(data, opts...)
		if err != nil {
			failed++
			printInfo("✗ %s: %v\n", path, err)
			continue
		}
		out, err := doc.Bytes()
		if err != nil {
			failed++
			printInfo("✗ %s: write: %v\n", path, err)
			continue
		}
		if at := firstDiff(data, out); at >= 0 {
			failed++
			printInfo("✗ %s: differs at 0x%X (%d bytes in, %d out)\n", path, at, len(data), len(out))
			continue
		}
		printInfo("✓ %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d resource(s) did not round-trip", failed, len(args))
	}
	return nil
}
