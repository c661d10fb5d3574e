package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/joshuapare/iekit/resource/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <resource>",
		Short: "Check that offsets, counts, indexes and sizes agree with the layout",
		Long: `The verify command reads a resource and checks that every section
reference field holds the value the structure implies, that fields tile
the file without gaps or overlaps and that fixed-size records have their
declared size.

Example:
  iectl verify IMOEN.CRE
  iectl verify AR0602.STO --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

type verifyResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func runVerify(args []string) error {
	path := args[0]
	doc, cleanup, err := openDocument(path)
	if err != nil {
		return err
	}
	defer cleanup()

	errs := multierr.Errors(verify.All(doc))
	result := verifyResult{File: path, Valid: len(errs) == 0}
	for _, e := range errs {
		result.Problems = append(result.Problems, e.Error())
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else if result.Valid {
		printInfo("✓ %s: no problems found\n", path)
	} else {
		printInfo("✗ %s:\n", path)
		for _, p := range result.Problems {
			printInfo("  %s\n", p)
		}
	}
	if !result.Valid {
		return fmt.Errorf("%d problem(s) found", len(errs))
	}
	return nil
}
