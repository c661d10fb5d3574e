package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/formats"
	"github.com/joshuapare/iekit/resource"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <resource>",
		Short: "Report the type, size and section populations of a resource",
		Long: `The info command reads a resource and reports its signature, version,
size, the number of structure nodes of each kind and any embedded records.

Example:
  iectl info IMOEN.CRE
  iectl info BALDUR.GAM --engine bg2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// resourceInfo is the info command's result.
type resourceInfo struct {
	File       string         `json:"file"`
	Signature  string         `json:"signature"`
	Version    string         `json:"version"`
	Size       int            `json:"size"`
	Nodes      int            `json:"nodes"`
	Kinds      map[string]int `json:"kinds"`
	Embedded   []string       `json:"embedded,omitempty"`
	ScriptName string         `json:"script_name,omitempty"`
}

func collectInfo(path string, doc *resource.Document) resourceInfo {
	root := doc.Root()
	info := resourceInfo{
		File:      path,
		Signature: root.Signature(),
		Version:   root.Version(),
		Size:      doc.Size(),
		Nodes:     doc.Len(),
		Kinds:     make(map[string]int),
	}
	_ = doc.Walk(func(n *resource.Node, _ int) error {
		if n == root {
			return nil
		}
		info.Kinds[string(n.Kind())]++
		if n.IsRecord() {
			info.Embedded = append(info.Embedded,
				fmt.Sprintf("%s%s @0x%X (%s)", n.Signature(), n.Version(), n.Offset(), humanize.Bytes(uint64(n.Size()))))
		}
		return nil
	})
	if name, ok := formats.ScriptName(doc); ok {
		info.ScriptName = name
	}
	return info
}

func runInfo(args []string) error {
	path := args[0]

	doc, cleanup, err := openDocument(path)
	if err != nil {
		return err
	}
	defer cleanup()

	info := collectInfo(path, doc)
	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nResource Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Type: %s %s\n", strings.TrimSpace(info.Signature), strings.TrimSpace(info.Version))
	printInfo("  Size: %s (%s bytes)\n", humanize.Bytes(uint64(info.Size)), humanize.Comma(int64(info.Size)))
	if stat, err := os.Stat(path); err == nil && stat.Size() != int64(info.Size) {
		printInfo("  File size: %s bytes\n", humanize.Comma(stat.Size()))
	}
	printInfo("  Nodes: %d\n", info.Nodes)
	if info.ScriptName != "" {
		printInfo("  Script name: %s\n", info.ScriptName)
	}

	kinds := make([]string, 0, len(info.Kinds))
	for k := range info.Kinds {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	if len(kinds) > 0 {
		printInfo("\nSections:\n")
		for _, k := range kinds {
			printInfo("  %-20s %d\n", k, info.Kinds[k])
		}
	}
	if len(info.Embedded) > 0 {
		printInfo("\nEmbedded records:\n")
		for _, e := range info.Embedded {
			printInfo("  %s\n", e)
		}
	}
	return nil
}
