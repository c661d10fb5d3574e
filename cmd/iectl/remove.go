package main

import (
	"context"

	"github.com/spf13/cobra"
)

var removeOutput string

func init() {
	cmd := newRemoveCmd()
	cmd.Flags().StringVarP(&removeOutput, "output", "o", "", "Write to this file instead of editing in place")
	rootCmd.AddCommand(cmd)
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <resource> <node-path>",
		Short: "Remove a record with its subtree and repair the layout",
		Long: `The remove command deletes the node at node-path together with everything
it owns, such as an ability and its effects, and repairs every offset,
count and index that referred past it.

Example:
  iectl remove SPWI112.SPL "Spell ability 1"
  iectl remove BALDUR.GAM "Party member 3" -o SMALLER.GAM`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args)
		},
	}
	return cmd
}

func runRemove(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := beginEdit(args[0])
	if err != nil {
		return err
	}
	defer s.close()

	n, err := s.doc.Resolve(args[1])
	if err != nil {
		return err
	}
	label, size := n.Label(), n.Size()
	if err := s.doc.Remove(n.ID()); err != nil {
		return err
	}
	printInfo("Removed %s (%d bytes)\n", label, size)
	return s.save(ctx, removeOutput)
}
