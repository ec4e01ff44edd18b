package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-nicefw/transport"
)

var (
	cmdPorts = &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Long:  ``,
		Args:  cobra.NoArgs,
		RunE:  runPorts,
	}
)

func init() {
	rootCmd.AddCommand(cmdPorts)
}

func runPorts(cmd *cobra.Command, _ []string) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(out, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(out, p)
	}
	return nil
}
