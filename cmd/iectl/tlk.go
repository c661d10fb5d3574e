package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/tlk"
)

func init() {
	rootCmd.AddCommand(newTLKCmd())
}

func newTLKCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tlk <dialog.tlk> [strref]...",
		Short: "Look up string references in a TLK string table",
		Long: `The tlk command prints the header of a TLK V1 table, or the entries for
the given string references.

Example:
  iectl tlk dialog.tlk
  iectl tlk dialog.tlk 1 2 3 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTLK(args)
		},
	}
	return cmd
}

type tlkEntry struct {
	StrRef uint32 `json:"strref"`
	Flags  uint16 `json:"flags"`
	Sound  string `json:"sound,omitempty"`
	Text   string `json:"text"`
}

func runTLK(args []string) error {
	table, err := tlk.Open(args[0])
	if err != nil {
		return err
	}
	defer table.Close()

	if len(args) == 1 {
		if jsonOut {
			return printJSON(map[string]any{"file": args[0], "entries": table.Len(), "language": table.Language()})
		}
		printInfo("  File: %s\n", args[0])
		printInfo("  Entries: %d\n", table.Len())
		printInfo("  Language: %d\n", table.Language())
		return nil
	}

	var entries []tlkEntry
	for _, arg := range args[1:] {
		ref, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid strref %q: %w", arg, err)
		}
		e, err := table.Lookup(uint32(ref))
		if err != nil {
			return err
		}
		entries = append(entries, tlkEntry{StrRef: uint32(ref), Flags: e.Flags, Sound: e.Sound, Text: e.Text})
	}

	if jsonOut {
		return printJSON(entries)
	}
	for _, e := range entries {
		if e.Sound != "" {
			printInfo("%d [%s] %s\n", e.StrRef, e.Sound, e.Text)
		} else {
			printInfo("%d %s\n", e.StrRef, e.Text)
		}
	}
	return nil
}
