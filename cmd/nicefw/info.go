package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-nicefw/firmware"
)

var (
	cmdInfo = &cobra.Command{
		Use:   "info <firmware>",
		Short: "Show a firmware container's header and record count",
		Long:  ``,
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
)

func init() {
	rootCmd.AddCommand(cmdInfo)
}

func runInfo(cmd *cobra.Command, args []string) error {
	fw, err := firmware.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "open firmware")
	}
	defer func() { _ = fw.Close() }()

	records, size := 0, 0
	for {
		record, err := fw.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		records++
		size += len(record)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Version:   %s\n", fw.Header.Version)
	fmt.Fprintf(out, "Hardware:  %s\n", strings.Join(fw.Header.Hardware, ","))
	fmt.Fprintf(out, "Checksum1: %d\n", fw.Header.Checksum1)
	fmt.Fprintf(out, "Checksum2: %d (0x%06X)\n", fw.Header.Checksum2, fw.Header.Checksum2)
	fmt.Fprintf(out, "Records:   %d (%d bytes)\n", records, size)
	return nil
}
