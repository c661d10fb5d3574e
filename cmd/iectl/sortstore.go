package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/formats"
)

var sortOutput string

func init() {
	cmd := newSortStoreCmd()
	cmd.Flags().StringVarP(&sortOutput, "output", "o", "", "Write to this file instead of editing in place")
	rootCmd.AddCommand(cmd)
}

func newSortStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort-store <store>",
		Short: "Sort the items for sale of a STO by item name",
		Long: `The sort-store command orders the items for sale of a store by their
item resource name. The rest of the file is left as it was.

Example:
  iectl sort-store BAG01.STO`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSortStore(cmd.Context(), args)
		},
	}
	return cmd
}

func runSortStore(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := beginEdit(args[0])
	if err != nil {
		return err
	}
	defer s.close()

	if err := formats.SortStoreItems(s.doc); err != nil {
		return err
	}
	printInfo("Sorted %d item(s)\n", len(s.doc.ChildrenOf(s.doc.Root().ID(), formats.KindSaleItem)))
	return s.save(ctx, sortOutput)
}
