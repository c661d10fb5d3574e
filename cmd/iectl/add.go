package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/formats"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/schema"
)

var (
	addIndex  int
	addFrom   string
	addOutput string
)

func init() {
	cmd := newAddCmd()
	cmd.Flags().IntVar(&addIndex, "index", -1, "Position among the existing records of the kind (-1 = append)")
	cmd.Flags().StringVar(&addFrom, "from", "", "Graft this resource file instead of a zero-filled record")
	cmd.Flags().StringVarP(&addOutput, "output", "o", "", "Write to this file instead of editing in place")
	rootCmd.AddCommand(cmd)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <resource> <parent-path> [kind]",
		Short: "Insert a record and repair every offset, count and index",
		Long: `The add command inserts a zero-filled record of the given kind below the
node at parent-path ("" for the top-level record). With --from it grafts a
whole resource instead, such as a CRE into a CHR envelope or a GAM party
member.

Without a kind, add lists the kinds the parent accepts.

Example:
  iectl add SPWI112.SPL "" spl.ability
  iectl add SPWI112.SPL "Spell ability 0" effect --index 0
  iectl add IMOEN.CHR "" --from IMOEN2.CRE -o NEW.CHR`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args)
		},
	}
	return cmd
}

func runAdd(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := beginEdit(args[0])
	if err != nil {
		return err
	}
	defer s.close()

	parent, err := s.doc.Resolve(args[1])
	if err != nil {
		return err
	}

	var id types.NodeID
	switch {
	case addFrom != "":
		opts, cleanup, err := readOptions()
		if err != nil {
			return err
		}
		defer cleanup()
		src, err := formats.ReadFile(addFrom, opts...)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", addFrom, err)
		}
		index := addIndex
		if index < 0 {
			index = len(s.doc.ChildrenOf(parent.ID(), src.Root().Kind()))
		}
		id, err = s.doc.Graft(parent.ID(), index, src)
		if err != nil {
			return err
		}
	case len(args) < 3:
		printMutable(parent)
		return nil
	default:
		kind := schema.Kind(strings.ToLower(args[2]))
		index := addIndex
		if index < 0 {
			index = len(s.doc.ChildrenOf(parent.ID(), kind))
		}
		id, err = s.doc.Insert(parent.ID(), kind, index)
		if err != nil {
			return err
		}
	}

	n := s.doc.Node(id)
	printInfo("Added %s at 0x%X (%d bytes)\n", n.Label(), n.Offset(), n.Size())
	return s.save(ctx, addOutput)
}

func printMutable(n *resource.Node) {
	kinds := n.Mutable()
	if len(kinds) == 0 {
		printInfo("%s accepts no inserts\n", n.Label())
		return
	}
	printInfo("%s accepts:\n", n.Label())
	for _, k := range kinds {
		printInfo("  %s\n", k)
	}
}
