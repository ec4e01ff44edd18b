package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-nicefw/bootloader"
	"github.com/moffa90/go-nicefw/firmware"
	"github.com/moffa90/go-nicefw/internal/logging"
)

var (
	cmdIdentify = &cobra.Command{
		Use:   "identify <port> [firmware]",
		Short: "Reboot a control unit into its bootloader and identify it",
		Long: `identify reboots the unit into its bootloader and prints its bus identity
and hardware name. Given a firmware container it also checks that the
container supports the unit. Nothing is erased or written.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runIdentify,
	}
)

func init() {
	rootCmd.AddCommand(cmdIdentify)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime("identify")
	if err != nil {
		return err
	}

	var header *firmware.Header
	if len(args) == 2 {
		fw, err := firmware.Open(args[1])
		if err != nil {
			return rt.finish(errors.Wrap(err, "open firmware"))
		}
		header = &fw.Header
		_ = fw.Close()
	}

	conn, err := rt.open(args[0], header)
	if err != nil {
		return rt.finish(err)
	}
	defer func() { _ = conn.Close() }()

	u := bootloader.New(rt.session(conn),
		bootloader.WithLogger(logging.NewAdapter(rt.log.WithField("component", "updater"))),
		bootloader.WithStateObserver(rt.met.ObserveState),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unit, err := u.Probe(ctx, header)
	out := cmd.OutOrStdout()
	if unit != nil {
		fmt.Fprintf(out, "Control unit address/endpoint: %s\n", unit.Identity)
		fmt.Fprintf(out, "Control unit hardware: %s\n", unit.Hardware)
	}
	if err != nil {
		return rt.finish(err)
	}

	if header != nil {
		fmt.Fprintf(out, "Firmware %s is compatible\n", header.Version)
	}
	return rt.finish(nil)
}
