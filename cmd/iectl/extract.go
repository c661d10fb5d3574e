package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/formats"
)

var extractOutput string

func init() {
	cmd := newExtractCmd()
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output CRE file (required)")
	_ = cmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cmd)
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <resource>",
		Short: "Write the creature embedded in a CHR or GAM as a standalone CRE",
		Long: `The extract command finds the first CRE record in a CHR envelope or GAM
save and writes it as its own file, with every offset rebased to the
start of the new file.

Example:
  iectl extract IMOEN.CHR -o IMOEN.CRE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args)
		},
	}
	return cmd
}

func runExtract(args []string) error {
	if extractOutput == "" {
		return fmt.Errorf("--output is required")
	}
	doc, cleanup, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	cre, err := formats.ExtractCRE(doc)
	if err != nil {
		return err
	}
	data, err := cre.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(extractOutput, data, 0o644); err != nil {
		return err
	}
	printInfo("Extracted %d bytes to %s\n", len(data), extractOutput)
	return nil
}
