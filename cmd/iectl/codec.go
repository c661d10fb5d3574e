package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/iekit/codec"
)

var inflateSize int

func init() {
	inflate := newInflateCmd()
	inflate.Flags().IntVar(&inflateSize, "size", -1, "Expected uncompressed length (-1 = unchecked)")
	rootCmd.AddCommand(inflate, newDeflateCmd())
}

func newInflateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inflate <in> <out>",
		Short: "Decompress a zlib body",
		Long: `The inflate command decompresses a zlib stream, such as a resource body
taken from a save container, so it can be read by the other commands.

Example:
  iectl inflate BALDUR.GAM.z BALDUR.GAM --size 45120`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInflate(args)
		},
	}
}

func newDeflateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deflate <in> <out>",
		Short: "Compress a resource as a zlib body at best compression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeflate(args)
		},
	}
}

func runInflate(args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := codec.Inflate(src, inflateSize)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		return err
	}
	printInfo("Inflated %s to %s\n", humanize.Bytes(uint64(len(src))), humanize.Bytes(uint64(len(out))))
	return nil
}

func runDeflate(args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := codec.Deflate(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		return err
	}
	printInfo("Deflated %s to %s\n", humanize.Bytes(uint64(len(src))), humanize.Bytes(uint64(len(out))))
	return nil
}
