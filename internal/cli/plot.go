package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/internal/config"
	"github.com/vasalvit/svgplot/plot"
)

const noLayersMessage = "Did not find any numbered layers to plot."

// jobFlags are the flags shared by the commands running a plot job.
// They override the configuration only when given.
type jobFlags struct {
	tolerance  float64
	penDelay   time.Duration
	penUp      int
	penDown    int
	address    string
	skipHidden bool
	noSave     bool
	layer      int
	output     string
}

func (f *jobFlags) register(cmd *cobra.Command, network bool) {
	d := config.Default()
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", d.Plot.Tolerance, "curve flatness tolerance")
	cmd.Flags().DurationVar(&f.penDelay, "pen-delay", d.Pen.Delay.Duration, "pause after each pen move")
	cmd.Flags().IntVar(&f.penUp, "pen-up", d.Pen.Up, "pen up height")
	cmd.Flags().IntVar(&f.penDown, "pen-down", d.Pen.Down, "pen down height")
	cmd.Flags().BoolVar(&f.skipHidden, "skip-hidden", false, "do not plot hidden elements")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "do not write progress back into the document")
	if network {
		cmd.Flags().StringVar(&f.address, "address", d.Device.Address, "plotter address")
	}
}

// apply copies the flags the user set into c.
func (f *jobFlags) apply(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		c.Plot.Tolerance = f.tolerance
	}
	if flags.Changed("pen-delay") {
		c.Pen.Delay.Duration = f.penDelay
	}
	if flags.Changed("pen-up") {
		c.Pen.Up = f.penUp
	}
	if flags.Changed("pen-down") {
		c.Pen.Down = f.penDown
	}
	if flags.Changed("address") {
		c.Device.Address = f.address
	}
	if flags.Changed("skip-hidden") {
		c.Plot.SkipHidden = f.skipHidden
	}
	if flags.Changed("layer") {
		c.Plot.Layer = f.layer
	}
	if flags.Changed("output") {
		c.Output.Path = f.output
	}
	return c.Validate()
}

func newPlotCmd() *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Plot every layer of a document on the plotter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return runJob(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, plot.AllLayers(), networkChannel, flags.noSave)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newLayerCmd() *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "layer [file]",
		Short: "Plot the layers whose label starts with a number",
		Long:  `Plot only the layers whose label starts with the number given by --layer, so "3 outline" and "03" are both layer 3.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return runJob(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, plot.OnlyLayer(cfg.Plot.Layer), networkChannel, flags.noSave)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().IntVarP(&flags.layer, "layer", "l", config.Default().Plot.Layer, "layer number to plot")
	return cmd
}

func newGcodeCmd() *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "gcode [file]",
		Short: "Write the plotter commands for a document to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			layer := plot.AllLayers()
			if cmd.Flags().Changed("layer") {
				layer = plot.OnlyLayer(cfg.Plot.Layer)
			}
			return runJob(cmd.Context(), cmd.OutOrStdout(), args[0], cfg, layer, fileChannel, flags.noSave)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().IntVarP(&flags.layer, "layer", "l", 0, "plot only this layer number")
	cmd.Flags().StringVarP(&flags.output, "output", "o", config.Default().Output.Path, "command file")
	return cmd
}

// openChannel opens the job's backend.
type openChannel func(ctx context.Context, out io.Writer, cfg *config.Config) (device.Channel, error)

func networkChannel(ctx context.Context, out io.Writer, cfg *config.Config) (device.Channel, error) {
	n := device.Dial(ctx, cfg.NetworkOptions(), loggerFromContext(ctx))
	if !n.Connected() {
		printWarning(out, "Not connected to %s, commands will be dropped", cfg.Device.Address)
		return n, nil
	}

	// the plotter greets every new connection; read it so that the first
	// answer belongs to the first command
	if h, err := n.Hello(); err != nil {
		loggerFromContext(ctx).Warn("no greeting", "err", err)
	} else {
		loggerFromContext(ctx).Debug("plotter", "version", h.Version, "serial", h.Serial)
	}
	printInfo(out, "Connected to %s", cfg.Device.Address)
	return n, nil
}

func fileChannel(ctx context.Context, out io.Writer, cfg *config.Config) (device.Channel, error) {
	path, err := cfg.OutputPath()
	if err != nil {
		return nil, err
	}
	f, err := device.CreateFile(path, loggerFromContext(ctx))
	if err != nil {
		return nil, err
	}
	printFile(out, path)
	return f, nil
}

func runJob(ctx context.Context, out io.Writer, path string, cfg *config.Config, layer plot.LayerSelection, open openChannel, noSave bool) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := svg.ParseSvg(string(data), filepath.Base(path))
	if err != nil {
		return err
	}

	ch, err := open(ctx, out, cfg)
	if err != nil {
		return err
	}
	res, err := plot.Run(doc, ch, cfg.PlotOptions(layer), logger)
	if err != nil {
		return err
	}

	if !layer.All && res.LayersPlotted == 0 {
		printWarning(out, noLayersMessage)
	}
	printSuccess(out, "Plotted %s", path)
	printDetail(out, "%d paths · %d nodes", res.State.PathCount, res.State.NodeCount)

	if noSave {
		return nil
	}
	if err := saveProgress(path, data, res.Progress); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	logger.Debug("progress saved", "file", path, "progress", res.Progress.String())
	return nil
}

// saveProgress writes the progress marker into the document at path.
// The file is replaced through a temporary file in the same directory.
func saveProgress(path string, data []byte, p svg.Progress) error {
	updated, err := svg.WriteProgress(data, p)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(updated); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
