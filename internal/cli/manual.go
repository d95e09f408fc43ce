package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/internal/config"
	"github.com/vasalvit/svgplot/plot"
)

func newManualCmd() *cobra.Command {
	var (
		address string
		walk    int
		penUp   int
		penDown int
	)

	cmd := &cobra.Command{
		Use:       "manual [pen-up|pen-down|hello|walk-x|walk-y]",
		Short:     "Send a single command to the plotter",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"pen-up", "pen-down", "hello", "walk-x", "walk-y"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := plot.ParseManualAction(args[0])
			if err != nil {
				return err
			}

			cfg := configFromContext(cmd.Context())
			flags := cmd.Flags()
			if flags.Changed("address") {
				cfg.Device.Address = address
			}
			if flags.Changed("walk") {
				cfg.Pen.Walk = walk
			}
			if flags.Changed("pen-up") {
				cfg.Pen.Up = penUp
			}
			if flags.Changed("pen-down") {
				cfg.Pen.Down = penDown
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runManual(cmd.Context(), cmd.OutOrStdout(), cfg, action)
		},
	}

	d := config.Default()
	cmd.Flags().StringVar(&address, "address", d.Device.Address, "plotter address")
	cmd.Flags().IntVar(&walk, "walk", d.Pen.Walk, "jog distance for walk-x and walk-y")
	cmd.Flags().IntVar(&penUp, "pen-up", d.Pen.Up, "pen up height")
	cmd.Flags().IntVar(&penDown, "pen-down", d.Pen.Down, "pen down height")
	return cmd
}

func runManual(ctx context.Context, out io.Writer, cfg *config.Config, action plot.ManualAction) error {
	n := device.Dial(ctx, cfg.NetworkOptions(), loggerFromContext(ctx))
	defer n.Close()

	if !n.Connected() {
		printError(out, "Not connected")
		return nil
	}

	if action != plot.ManualHello {
		// skip the greeting so the answer read is the command's
		if _, err := n.Hello(); err != nil {
			loggerFromContext(ctx).Debug("no greeting", "err", err)
		}
	}

	res, err := plot.Manual(n, action, cfg.ManualOptions())
	switch {
	case errors.Is(err, device.ErrInvalidHandshake):
		printWarning(out, "Unexpected greeting from the plotter")
		return nil
	case err != nil:
		return err
	case res.Hello != nil:
		printSuccess(out, "%s", res.Hello)
	case res.Delivered():
		printSuccess(out, "%s", res.Command)
	default:
		printWarning(out, "%s: %s", res.Command, res.Status)
	}
	return nil
}
