package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-nicefw/bootloader"
	"github.com/moffa90/go-nicefw/firmware"
	"github.com/moffa90/go-nicefw/internal/logging"
)

var (
	cmdUpdate = &cobra.Command{
		Use:   "update <port> <firmware>",
		Short: "Write a firmware container to a control unit",
		Long:  ``,
		Args:  cobra.ExactArgs(2),
		RunE:  runUpdate,
	}
)

func init() {
	rootCmd.AddCommand(cmdUpdate)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	port, path := args[0], args[1]

	rt, err := newRuntime("update")
	if err != nil {
		return err
	}

	// The container is read before the line is touched, so a bad file
	// never reaches the unit.
	fw, err := firmware.Open(path)
	if err != nil {
		return rt.finish(errors.Wrap(err, "open firmware"))
	}
	defer func() { _ = fw.Close() }()

	rt.log.WithField("firmware", fw.Header.String()).Info("firmware loaded")

	conn, err := rt.open(port, &fw.Header)
	if err != nil {
		return rt.finish(err)
	}
	defer func() { _ = conn.Close() }()

	out := cmd.OutOrStdout()
	u := bootloader.New(rt.session(conn),
		bootloader.WithRecordDelay(rt.cfg.Update.RecordDelay()),
		bootloader.WithLogger(logging.NewAdapter(rt.log.WithField("component", "updater"))),
		bootloader.WithStateObserver(rt.met.ObserveState),
		bootloader.WithProgressCallback(progressPrinter(out)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := u.Update(ctx, fw); err != nil {
		return rt.finish(err)
	}

	fmt.Fprintln(out, "Done")
	return rt.finish(nil)
}

// progressPrinter prints a line when the update enters a new state and
// one per accepted record.
func progressPrinter(out io.Writer) bootloader.ProgressCallback {
	last := bootloader.StateInit
	return func(p bootloader.Progress) {
		if p.State != last {
			last = p.State
			switch p.State {
			case bootloader.StateEraseOrInit:
				fmt.Fprintln(out, "Starting the update...")
			case bootloader.StateVerifyChecksum:
				fmt.Fprintln(out, "Finishing the update...")
			}
			return
		}

		if p.State == bootloader.StateTransfer {
			fmt.Fprintf(out, "record %d, %d bytes, %s\n", p.Records, p.Bytes, p.Elapsed.Truncate(time.Millisecond))
		}
	}
}
