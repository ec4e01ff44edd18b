package main

import "github.com/spf13/cobra"

var (
	rootCmd = &cobra.Command{
		Use:   "nicefw <port> <firmware>",
		Short: "Firmware updater for NICE control units.",
		Long: `nicefw writes a NICE.FIRMWARE container to a control unit over its
serial service bus. With two arguments it runs an update, the same as
"nicefw update".`,
		Args:          cobra.RangeArgs(0, 2),
		RunE:          runRoot,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

var confPath string
var debug bool
var metricsFile string
var simulate string

func init() {
	rootCmd.PersistentFlags().StringVarP(&confPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Debug logging, including line traffic")
	rootCmd.PersistentFlags().StringVarP(&metricsFile, "metrics-file", "m", "", "Write session metrics to this textfile")
	rootCmd.PersistentFlags().StringVarP(&simulate, "simulate", "s", "", "Talk to a simulated unit with this hardware name instead of a serial port")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return cmd.Help()
	}
	return runUpdate(cmd, args)
}

func Execute() error {
	return rootCmd.Execute()
}
